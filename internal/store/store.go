package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no character matches the requested name.
var ErrNotFound = errors.New("character not found")

type Store interface {
	// FindCharacter looks a character up by name. Matching ignores case and
	// surrounding whitespace. A miss is reported as ErrNotFound.
	FindCharacter(ctx context.Context, name string) (*Character, error)
	ListCharacters(ctx context.Context) ([]Character, error)
	Ping(ctx context.Context) error
}

type Character struct {
	Name            string   `yaml:"name" db:"name"`
	Planet          string   `yaml:"planet" db:"planet"`
	LightsaberColor string   `yaml:"lightsaber" db:"lightsaber_color"`
	Quotes          []string `yaml:"quotes" db:"-"`
}

// Clone returns a copy that does not share the quotes slice.
func (c Character) Clone() Character {
	if c.Quotes != nil {
		c.Quotes = append([]string(nil), c.Quotes...)
	}
	return c
}

// Key normalizes a character name for lookups.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
