// Package main is the entry point for the sheet translator Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pricofy/sheet-translator/internal/config"
	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/handler"
	"github.com/pricofy/sheet-translator/internal/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	deps := newDeps(cfg)
	lambda.Start(func(ctx context.Context, event json.RawMessage) (interface{}, error) {
		return handleRequest(ctx, deps, event)
	})
}

// newDeps wires the DeepL client with the key from $DEEPL_AUTH_KEY.
func newDeps(cfg *config.Config) handler.Deps {
	client := deepl.New(settings.EnvStore{}, deepl.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
		Proxy:   cfg.Proxy,
	})
	opts := cfg.TranslatorOptions()
	opts.OnLog = log.Printf
	return handler.Deps{Client: client, Options: opts}
}

func handleRequest(ctx context.Context, deps handler.Deps, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup, newLambdaInvoker)
	}

	// Parse the request and delegate to the handler
	var req handler.Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}

	resp, err := handler.Handle(ctx, deps, req)
	if err == nil && resp.Error != "" {
		log.Printf("%s request failed: %s", actionName(req), resp.Error)
	}
	return resp, err
}

func actionName(req handler.Request) string {
	if req.Action == "" {
		return handler.ActionTranslate
	}
	return req.Action
}
