// Package memory serves characters from a dataset held in memory. The dataset
// can be reloaded from its YAML file while requests are being served.
package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
)

const defaultDebounce = 250 * time.Millisecond

type Store struct {
	path     string
	debounce time.Duration
	chars    atomic.Pointer[map[string]store.Character]
}

var _ store.Store = (*Store)(nil)

// New returns a store serving chars. It cannot be reloaded.
func New(chars []store.Character) *Store {
	s := &Store{debounce: defaultDebounce}
	s.swap(chars)
	return s
}

// Open loads the dataset at path, or the bundled dataset when path is empty.
func Open(path string) (*Store, error) {
	chars, err := store.LoadDataset(path)
	if err != nil {
		return nil, err
	}

	s := New(chars)
	s.path = path
	return s, nil
}

func (s *Store) swap(chars []store.Character) {
	m := make(map[string]store.Character, len(chars))
	for _, c := range chars {
		m[store.Key(c.Name)] = c.Clone()
	}
	s.chars.Store(&m)
}

func (s *Store) FindCharacter(_ context.Context, name string) (*store.Character, error) {
	c, ok := (*s.chars.Load())[store.Key(name)]
	if !ok {
		return nil, store.ErrNotFound
	}
	c = c.Clone()
	return &c, nil
}

func (s *Store) ListCharacters(_ context.Context) ([]store.Character, error) {
	m := *s.chars.Load()
	chars := make([]store.Character, 0, len(m))
	for _, c := range m {
		chars = append(chars, c.Clone())
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Name < chars[j].Name })
	return chars, nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// Reload re-reads the dataset file. On failure the current dataset is kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	chars, err := store.LoadDataset(s.path)
	if err != nil {
		return err
	}
	s.swap(chars)
	return nil
}

// Watch reloads the dataset whenever its file changes and blocks until ctx is
// done. The parent directory is watched so that editors replacing the file
// are noticed too.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}

	logger.Log.Info("watching dataset", zap.String("path", target))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			pending = time.After(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Log.Warn("dataset watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				logger.Log.Error("cannot reload dataset, keeping previous one",
					zap.String("path", target), zap.Error(err))
				continue
			}
			logger.Log.Info("dataset reloaded", zap.String("path", target))
		}
	}
}
