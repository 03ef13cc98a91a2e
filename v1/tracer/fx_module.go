package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/vectordesk/core/v1/logger"
)

// FXModule provides a Uber FX module that configures distributed tracing for your application.
// This module registers the tracer client with the dependency injection system and
// sets up proper lifecycle management to ensure graceful startup and shutdown of the tracer.
//
// The module:
//  1. Provides the tracer client through the NewClient constructor
//  2. Registers shutdown hooks to cleanly close tracer resources on application termination
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.DefaultConfig() }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A tracer.Config instance must be available in the dependency injection container
// - A tracer.Logger implementation (the v1/logger client satisfies it)
var FXModule = fx.Module("tracer",
	fx.Provide(
		func(log *logger.Logger) Logger { return log },
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers shutdown hooks for the tracer with the FX lifecycle.
// This function ensures that tracer resources are properly released when the application
// terminates, flushing any pending spans to the configured exporters.
//
// This function is automatically invoked by the FXModule and normally doesn't need
// to be called directly.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			if tracer.tracer == nil {
				log.Println("INFO: tracer is nil, skipping shutdown")
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
