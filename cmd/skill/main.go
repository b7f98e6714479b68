package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/bootstrap"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/config"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
)

func main() {
	parseFlags()
	if err := run(); err != nil {
		panic(err)
	}
}

func rateLimitMiddleware(limiter *rate.Limiter, h http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			logger.Log.Debug("rate limit exceeded", zap.String("remote_addr", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		h(w, r)
	}
}

func newLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RPS), burst)
}

func newHandler(a *app, limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.healthz)
	mux.HandleFunc("/", logger.RequestLogger(rateLimitMiddleware(limiter, gzipMiddleware(a.webhook))))
	return mux
}

func run() error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Log.Level); err != nil {
		return err
	}
	defer logger.Sync()

	rt, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Log.Error("cannot close store", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      newHandler(newApp(rt.Skill, rt.Store), newLimiter(cfg.Server.RateLimit)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Running server", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return rt.Watch(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
