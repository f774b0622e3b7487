package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
)

// metricInits registers application-specific metric instruments. Add new
// domain InitMetrics calls here as the project grows.
var metricInits = []func() error{
	calculator.InitMetrics,
}

// initTelemetry starts the OTLP trace, metric and log pipelines and the
// calculator's metric instruments. The returned shutdown flushes all of them.
func initTelemetry(ctx context.Context) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var err error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			err = errors.Join(err, shutdowns[i](ctx))
		}
		return err
	}

	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, metricShutdown)

	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, logShutdown)

	return shutdown, nil
}

// initMetrics initialises the meter provider and every entry of metricInits.
// On failure the provider is shut down before returning.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	for _, initFn := range metricInits {
		if err := initFn(); err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
	}

	return shutdown, nil
}

// newStore builds the session store on the current observability.Logger and
// exposes its size on reg. Call it after initTelemetry so sessions log
// through the OTLP tee.
func newStore(cfg config, reg prometheus.Registerer) (*calculator.Store, error) {
	store := calculator.NewStore(cfg.SessionTTL, observability.Logger)

	if err := calculator.RegisterCollectors(reg, store); err != nil {
		return nil, err
	}

	return store, nil
}
