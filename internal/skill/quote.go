package skill

import (
	"errors"
	"math/rand"
)

// ErrEmptyQuoteList is returned when a character has no quotes to pick from.
var ErrEmptyQuoteList = errors.New("empty quote list")

// PickFunc returns an index in [0, n). n is always positive.
type PickFunc func(n int) int

func pickQuote(quotes []string, pick PickFunc) (string, error) {
	if len(quotes) == 0 {
		return "", ErrEmptyQuoteList
	}
	if pick == nil {
		pick = rand.Intn
	}

	i := pick(len(quotes))
	if i < 0 || i >= len(quotes) {
		i = 0
	}
	return quotes[i], nil
}
