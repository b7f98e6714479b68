package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/models"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/skill"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/webhook"
)

type app struct {
	skill *webhook.Skill
	store store.Store
}

func newApp(sk *webhook.Skill, s store.Store) *app {
	return &app{skill: sk, store: s}
}

func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Log.Debug("got request with bad method", zap.String("method", r.Method))

		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	logger.Log.Debug("decoding request")
	var req models.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		logger.Log.Debug("cannot decode request JSON body", zap.Error(err))

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp, err := a.skill.Process(ctx, req)
	if err != nil {
		status := statusFor(err)
		logger.Log.Debug("cannot process request",
			zap.String("request_id", logger.RequestID(ctx)),
			zap.String("type", req.Request.Type),
			zap.Int("status", status),
			zap.Error(err))

		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	if err := enc.Encode(resp); err != nil {
		logger.Log.Debug("error encoding response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedRequestType), errors.Is(err, skill.ErrInvalidIntent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrApplicationID), errors.Is(err, models.ErrStaleRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *app) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		logger.Log.Warn("store ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
