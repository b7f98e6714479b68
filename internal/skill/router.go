// Package skill answers Star Wars trivia requests: it dispatches each request
// to the handler of its intent and renders the answer with package response.
package skill

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/response"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
)

// ErrUnknownKind is returned for envelopes without a known Kind.
var ErrUnknownKind = errors.New("unknown request kind")

const (
	welcomeText = "Welcome to Star Wars Trivia, you can ask about planets"
	introText   = "Star Wars is cool"
	helpText    = "Star Wars"

	titleWelcome    = "Star Wars Welcome"
	titleIntro      = "Star Wars Intro"
	titleHelp       = "Star Wars Help"
	titlePlanet     = "Star Wars Planet"
	titleLightsaber = "Star Wars Lightsaber"
	titleQuotes     = "Star Wars Quotes"
)

// Options tune the router.
type Options struct {
	// MovieIntroSpeech speaks the intro text for MovieIntent. When false the
	// intro is answered with empty speech, as the skill always did.
	MovieIntroSpeech bool
	// Pick selects a quote index. Defaults to a uniform random pick.
	Pick PickFunc
}

type Router struct {
	store store.Store
	opts  Options
}

func NewRouter(s store.Store, opts Options) *Router {
	return &Router{store: s, opts: opts}
}

// Handle answers one envelope. Session lifecycle envelopes produce no
// response. Unknown intents fail with ErrInvalidIntent.
func (r *Router) Handle(ctx context.Context, env Envelope) (*response.Response, error) {
	logger.Log.Info("handling request",
		zap.String("request_id", env.RequestID),
		zap.String("session_id", env.SessionID),
		zap.Stringer("kind", env.Kind),
		zap.String("intent", env.IntentName),
	)

	switch env.Kind {
	case KindLaunch:
		resp := response.Ask(welcomeText, titleWelcome)
		return &resp, nil
	case KindSessionStarted, KindSessionEnded:
		return nil, nil
	case KindIntent:
		return r.handleIntent(ctx, env)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, env.Kind)
	}
}

func (r *Router) handleIntent(ctx context.Context, env Envelope) (*response.Response, error) {
	intent, err := ParseIntent(env.IntentName)
	if err != nil {
		return nil, err
	}

	var resp response.Response
	switch intent {
	case IntentMovie:
		resp = r.intro()
	case IntentPlanet:
		resp, err = r.characterAnswer(ctx, env, titlePlanet, func(c store.Character) string {
			return fmt.Sprintf("%s is from %s", c.Name, c.Planet)
		})
	case IntentLightsaber:
		resp, err = r.characterAnswer(ctx, env, titleLightsaber, func(c store.Character) string {
			return fmt.Sprintf("%s's ligthsaber is %s", c.Name, c.LightsaberColor)
		})
	case IntentQuotes:
		resp, err = r.characterAnswer(ctx, env, titleQuotes, r.quote)
	case IntentHelp:
		resp = response.Ask(helpText, titleHelp)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidIntent, intent)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", intent, err)
	}

	return &resp, nil
}

func (r *Router) intro() response.Response {
	if r.opts.MovieIntroSpeech {
		return response.Tell(introText, titleIntro)
	}
	return response.Tell("", titleIntro)
}

func (r *Router) quote(c store.Character) string {
	q, err := pickQuote(c.Quotes, r.opts.Pick)
	if errors.Is(err, ErrEmptyQuoteList) {
		logger.Log.Debug("character has no quotes", zap.String("character", c.Name))
		return fmt.Sprintf("I don't have a quote for %s", c.Name)
	}
	return fmt.Sprintf("Here is a quote from %s: %s", c.Name, q)
}

// characterAnswer looks up the character named by the character slot and
// renders it with format. Unknown characters get the not-found answer.
func (r *Router) characterAnswer(ctx context.Context, env Envelope, title string, format func(store.Character) string) (response.Response, error) {
	slot := env.Slots[SlotCharacter]

	c, err := r.lookup(ctx, env)
	if err != nil {
		return response.Response{}, err
	}
	if c == nil {
		return response.Tell(notFoundText(slot), title), nil
	}

	return response.Tell(format(*c), title), nil
}

func (r *Router) lookup(ctx context.Context, env Envelope) (*store.Character, error) {
	name, ok := env.Slot(SlotCharacter)
	if !ok {
		logger.Log.Debug("character slot is missing", zap.String("request_id", env.RequestID))
		return nil, nil
	}

	c, err := r.store.FindCharacter(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find character %q: %w", name, err)
	}
	if c == nil || c.Name == "" {
		return nil, nil
	}
	return c, nil
}

func notFoundText(slot string) string {
	return fmt.Sprintf("Are you sure %s was in Star Wars?", slot)
}
