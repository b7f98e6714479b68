// Package bootstrap assembles the skill from its configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/config"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/models"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store/memory"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store/sqlite"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/webhook"
)

// Runtime holds the assembled skill and the resources it owns.
type Runtime struct {
	Store  store.Store
	Router *skill.Router
	Skill  *webhook.Skill

	watch func(ctx context.Context) error
	close func() error
}

// New opens the configured store and builds the router on top of it.
func New(cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{}

	switch cfg.Store.Driver {
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		rt.Store = s
		rt.close = s.Close
	default:
		s, err := memory.Open(cfg.Store.DatasetPath)
		if err != nil {
			return nil, fmt.Errorf("open memory store: %w", err)
		}
		rt.Store = s
		if cfg.Store.Watch {
			rt.watch = s.Watch
		}
	}

	logger.Log.Info("character store opened", zap.String("driver", cfg.Store.Driver))

	rt.Router = skill.NewRouter(rt.Store, skill.Options{
		MovieIntroSpeech: cfg.Skill.MovieIntroSpeech,
	})
	rt.Skill = webhook.New(rt.Router, models.Checker{
		ApplicationIDs: cfg.Skill.ApplicationIDs,
		Tolerance:      cfg.Skill.TimestampTolerance,
	})
	return rt, nil
}

// Watch keeps the dataset fresh until ctx is done. Without a watchable
// dataset it only waits for ctx.
func (rt *Runtime) Watch(ctx context.Context) error {
	if rt.watch == nil {
		<-ctx.Done()
		return nil
	}
	return rt.watch(ctx)
}

func (rt *Runtime) Close() error {
	if rt.close == nil {
		return nil
	}
	return rt.close()
}
