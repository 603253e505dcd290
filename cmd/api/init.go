package main

import (
	"context"

	"termcalc/internal/config"
	"termcalc/internal/observability"
	"termcalc/internal/remote"
)

// initTelemetry starts OTLP export when enabled and registers the session
// API's metric instruments. Without OTLP the instruments bind to the no-op
// global meter provider.
func initTelemetry(ctx context.Context, cfg config.Config) (observability.ShutdownFunc, error) {
	shutdown := observability.ShutdownFunc(func(context.Context) error { return nil })

	if cfg.OTLPEnabled {
		var err error
		shutdown, err = observability.InitTelemetry(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := remote.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
