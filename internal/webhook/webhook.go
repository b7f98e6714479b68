// Package webhook turns platform requests into platform responses. It is
// shared by the HTTP and Lambda hosts.
package webhook

import (
	"context"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/models"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/response"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
)

type Skill struct {
	router  *skill.Router
	checker models.Checker
}

func New(router *skill.Router, checker models.Checker) *Skill {
	return &Skill{router: router, checker: checker}
}

// Process checks req, runs each of its envelopes through the router and
// encodes the answer. Errors come from models.Checker, models.Request.Envelopes
// or the router.
func (s *Skill) Process(ctx context.Context, req models.Request) (models.Response, error) {
	if err := s.checker.Check(req); err != nil {
		logger.Log.Debug("request rejected",
			zap.String("request_id", req.Request.RequestID),
			zap.String("application_id", req.ApplicationID()),
			zap.Error(err))
		return models.Response{}, err
	}

	envs, err := req.Envelopes()
	if err != nil {
		return models.Response{}, err
	}

	var out *response.Response
	for _, env := range envs {
		resp, err := s.router.Handle(ctx, env)
		if err != nil {
			return models.Response{}, err
		}
		if resp != nil {
			out = resp
		}
	}

	return models.NewResponse(out), nil
}
