package main

import (
	"context"
	"log"

	"github.com/andrew-pixel/Stock-Alerts/pkg/app"
	"github.com/andrew-pixel/Stock-Alerts/pkg/config"
	"github.com/andrew-pixel/Stock-Alerts/pkg/logger"
	"github.com/andrew-pixel/Stock-Alerts/pkg/stocks"
	"github.com/aws/aws-lambda-go/lambda"
)

var bot *stocks.Bot

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	// Connections live for the lifetime of the execution environment
	bot, _, err = app.Build(context.Background(), cfg, zl)
	if err != nil {
		log.Fatal(err)
	}
}

func handler(ctx context.Context, event stocks.Event) (stocks.Response, error) {
	return bot.Handler(ctx, event)
}

func main() {
	lambda.Start(handler)
}
