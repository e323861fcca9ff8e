package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	// WarmupSource identifies scheduled warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the self-invocations
	// to land on other instances.
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency caps the self-invocations of a single event.
	MaxWarmupConcurrency = 20
)

// WarmupEvent is the scheduled event payload.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned for warmup events.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// invoker is the part of the Lambda API client used to self-invoke.
type invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// IsWarmupEvent reports whether event is a warmup event.
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil {
		return nil, false
	}
	if warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

// HandleWarmup answers a warmup event, self-invoking Concurrency times when
// asked to keep more instances warm.
func HandleWarmup(ctx context.Context, warmup *WarmupEvent, newInvoker func(context.Context) (invoker, error)) (*WarmupResponse, error) {
	instancesWarmed := 1
	count := min(warmup.Concurrency, MaxWarmupConcurrency)

	if count > 0 {
		client, err := newInvoker(ctx)
		if err == nil {
			err = selfInvoke(ctx, client, os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), count)
		}
		if err != nil {
			log.Printf("warmup: self-invoke failed: %v", err)
		} else {
			instancesWarmed += count
		}
	}

	// Brief delay to ensure instances overlap
	select {
	case <-ctx.Done():
	case <-time.After(WarmupDelay):
	}

	return &WarmupResponse{Status: "warm", InstancesWarmed: instancesWarmed}, nil
}

func newLambdaInvoker(ctx context.Context) (invoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

// selfInvoke invokes functionName count times asynchronously.
func selfInvoke(ctx context.Context, client invoker, functionName string, count int) error {
	if functionName == "" {
		return fmt.Errorf("AWS_LAMBDA_FUNCTION_NAME is not set")
	}

	// Children get concurrency 0 so they do not invoke again
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})

			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}
