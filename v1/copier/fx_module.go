package copier

import (
	"go.uber.org/fx"

	"github.com/vectordesk/core/v1/logger"
)

// FXModule defines the Fx module for the collection copier.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    metrics.FXModule,
//	    profile.FXModule,
//	    copier.FXModule,
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *logger.Logger instance
// - A *tracer.Tracer instance (v1/tracer provides one)
// - An observability.Observer implementation (v1/metrics provides one)
// - An embedding.OverrideSource implementation (v1/profile provides one)
var FXModule = fx.Module("copier",
	fx.Provide(
		func(log *logger.Logger) Logger { return log },
		NewCopier,
	),
)
