package pool

import (
	"context"

	"go.uber.org/fx"

	"github.com/vectordesk/core/v1/logger"
)

// FXModule defines the Fx module for the connection pool.
// This module provides the pool built on the default adapter factory and
// registers a shutdown hook that force-disconnects every pooled
// connection when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    profile.FXModule,
//	    pool.FXModule,
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *logger.Logger instance
// - An observability.Observer implementation (v1/metrics provides one)
// - An embedding.OverrideSource implementation (v1/profile provides one)
var FXModule = fx.Module("pool",
	fx.Provide(
		func(log *logger.Logger) Logger { return log },
		DefaultFactory,
		NewPool,
	),
	fx.Invoke(RegisterPoolLifecycle),
)

// RegisterPoolLifecycle tears the pool down with the application so no
// backend connection outlives it.
//
// Note: This function is automatically invoked by the FXModule and does not
// need to be called directly in application code.
func RegisterPoolLifecycle(lc fx.Lifecycle, p *Pool) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Shutdown(ctx)
		},
	})
}
