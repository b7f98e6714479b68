package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/models"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/response"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestAskLocal(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "planet",
			args: []string{"ask", "planet", "Yoda"},
			want: []string{"card:     Star Wars Planet", "speech:   Yoda is from Dagobah", "session:  ended"},
		},
		{
			name: "lightsaber_multi_word_name",
			args: []string{"ask", "lightsaber", "Obi-Wan", "Kenobi"},
			want: []string{"speech:   Obi-Wan Kenobi's ligthsaber is blue"},
		},
		{
			name: "launch",
			args: []string{"ask", "launch"},
			want: []string{"reprompt: Welcome to Star Wars Trivia, you can ask about planets", "session:  open"},
		},
		{
			name: "full_intent_name",
			args: []string{"ask", "AMAZON.HelpIntent"},
			want: []string{"card:     Star Wars Help", "speech:   Star Wars"},
		},
		{
			name: "empty_quotes",
			args: []string{"ask", "quotes", "Chewbacca"},
			want: []string{"speech:   I don't have a quote for Chewbacca"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			for _, want := range tc.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestAskInvalidIntent(t *testing.T) {
	_, err := execute(t, "ask", "weather")
	assert.ErrorIs(t, err, skill.ErrInvalidIntent)
}

func TestAskRemote(t *testing.T) {
	var got models.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := response.Tell("Han Solo is from Corellia", "Star Wars Planet")
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(models.NewResponse(&resp)))
	}))
	defer srv.Close()

	out, err := execute(t, "ask", "planet", "Han", "Solo", "--url", srv.URL, "--app-id", "amzn1.ask.skill.starwars")
	require.NoError(t, err)

	assert.Contains(t, out, "speech:   Han Solo is from Corellia")
	assert.Equal(t, "PlanetIntent", got.Request.Intent.Name)
	assert.Equal(t, "Han Solo", got.Request.Intent.Slots["character"].Value)
	assert.Equal(t, "amzn1.ask.skill.starwars", got.ApplicationID())
}

func TestAskRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := execute(t, "ask", "weather", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSeedAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "characters.db")

	out, err := execute(t, "seed", "-d", db)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 9 characters into "+db)

	out, err = execute(t, "list", "--driver", "sqlite", "-d", db)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `Yoda\s+Dagobah\s+green\s+3`, out)
	assert.Regexp(t, `Chewbacca\s+Kashyyyk\s+none\s+0`, out)

	out, err = execute(t, "ask", "planet", "yoda", "--driver", "sqlite", "-d", db)
	require.NoError(t, err)
	assert.Contains(t, out, "speech:   Yoda is from Dagobah")
}
