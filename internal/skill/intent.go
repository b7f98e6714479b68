package skill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIntent is returned for intent names the skill does not handle.
var ErrInvalidIntent = errors.New("invalid intent")

// Intent is the closed set of intents the skill answers.
type Intent int

const (
	IntentMovie Intent = iota + 1
	IntentPlanet
	IntentLightsaber
	IntentQuotes
	IntentHelp
)

var intentNames = map[Intent]string{
	IntentMovie:      "MovieIntent",
	IntentPlanet:     "PlanetIntent",
	IntentLightsaber: "LightsaberIntent",
	IntentQuotes:     "QuotesIntent",
	IntentHelp:       "AMAZON.HelpIntent",
}

// ParseIntent maps a wire-level intent name to an Intent. Names are matched exactly.
func ParseIntent(name string) (Intent, error) {
	for intent, n := range intentNames {
		if n == name {
			return intent, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidIntent, name)
}

// String returns the wire-level name.
func (i Intent) String() string {
	if n, ok := intentNames[i]; ok {
		return n
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// Intents lists every handled intent in declaration order.
func Intents() []Intent {
	return []Intent{IntentMovie, IntentPlanet, IntentLightsaber, IntentQuotes, IntentHelp}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
