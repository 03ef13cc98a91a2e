package profile

import (
	"context"

	"go.uber.org/fx"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/logger"
)

// FXModule defines the Fx module for the profile store.
// The store doubles as the embedding.OverrideSource the resolver and the
// backend adapters consult, so both are provided here.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    profile.FXModule,
//	    fx.Provide(func() profile.Config { return profile.DefaultConfig() }),
//	    // other modules...
//	)
//
// Dependencies required by this module:
// - A *logger.Logger instance
// - A profile.Config instance
var FXModule = fx.Module("profile",
	fx.Provide(
		func(log *logger.Logger) Logger { return log },
		NewStore,
		func(s *Store) embedding.OverrideSource { return s },
	),
	fx.Invoke(RegisterProfileLifecycle),
)

// RegisterProfileLifecycle closes the database file with the application.
//
// Note: This function is automatically invoked by the FXModule and does not
// need to be called directly in application code.
func RegisterProfileLifecycle(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
}
