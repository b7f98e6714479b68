package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/bootstrap"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/config"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/models"
)

type processor interface {
	Process(ctx context.Context, req models.Request) (models.Response, error)
}

func handler(p processor) func(context.Context, models.Request) (models.Response, error) {
	return func(ctx context.Context, req models.Request) (models.Response, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			ctx = logger.WithRequestID(ctx, lc.AwsRequestID)
		}

		resp, err := p.Process(ctx, req)
		if err != nil {
			logger.Log.Error("cannot process request",
				zap.String("aws_request_id", logger.RequestID(ctx)),
				zap.String("request_id", req.Request.RequestID),
				zap.String("type", req.Request.Type),
				zap.Error(err))
			return models.Response{}, err
		}
		return resp, nil
	}
}

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.Log.Level); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rt, err := bootstrap.New(cfg)
	if err != nil {
		panic("Failed to initialize skill: " + err.Error())
	}

	awslambda.Start(handler(rt.Skill))
}
