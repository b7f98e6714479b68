package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFindCharacter(t *testing.T) {
	s := New([]store.Character{
		{Name: "Yoda", Planet: "Dagobah", LightsaberColor: "green", Quotes: []string{"Size matters not."}},
	})
	ctx := context.Background()

	for _, name := range []string{"Yoda", "yoda", "  YODA "} {
		c, err := s.FindCharacter(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, "Dagobah", c.Planet)
	}

	_, err := s.FindCharacter(ctx, "Jabba")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindCharacterReturnsCopy(t *testing.T) {
	s := New([]store.Character{{Name: "Yoda", Quotes: []string{"Size matters not."}}})
	ctx := context.Background()

	c, err := s.FindCharacter(ctx, "Yoda")
	require.NoError(t, err)
	c.Quotes[0] = "changed"

	again, err := s.FindCharacter(ctx, "Yoda")
	require.NoError(t, err)
	assert.Equal(t, "Size matters not.", again.Quotes[0])
}

func TestListCharacters(t *testing.T) {
	s := New([]store.Character{{Name: "Yoda"}, {Name: "Han Solo"}, {Name: "Darth Vader"}})

	chars, err := s.ListCharacters(context.Background())
	require.NoError(t, err)
	require.Len(t, chars, 3)
	assert.Equal(t, "Darth Vader", chars[0].Name)
	assert.Equal(t, "Yoda", chars[2].Name)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenBundledDataset(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	c, err := s.FindCharacter(context.Background(), "Yoda")
	require.NoError(t, err)
	assert.Equal(t, "Dagobah", c.Planet)
	assert.NoError(t, s.Reload(), "bundled dataset reload is a no-op")
}

func writeDataset(t *testing.T, path, planet string) {
	t.Helper()
	body := "characters:\n  - name: Yoda\n    planet: " + planet + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	writeDataset(t, path, "Dagobah")

	s, err := Open(path)
	require.NoError(t, err)

	writeDataset(t, path, "Coruscant")
	require.NoError(t, s.Reload())

	c, err := s.FindCharacter(context.Background(), "Yoda")
	require.NoError(t, err)
	assert.Equal(t, "Coruscant", c.Planet)

	require.NoError(t, os.WriteFile(path, []byte("characters: [[["), 0o600))
	assert.Error(t, s.Reload())

	c, err = s.FindCharacter(context.Background(), "Yoda")
	require.NoError(t, err)
	assert.Equal(t, "Coruscant", c.Planet, "broken file keeps previous dataset")
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	writeDataset(t, path, "Dagobah")

	s, err := Open(path)
	require.NoError(t, err)
	s.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	require.Eventually(t, func() bool {
		writeDataset(t, path, "Coruscant")
		c, err := s.FindCharacter(context.Background(), "Yoda")
		return err == nil && c.Planet == "Coruscant"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchWithoutFile(t *testing.T) {
	s := New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Watch(ctx))
}
