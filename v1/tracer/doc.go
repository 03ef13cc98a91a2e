// Package tracer provides distributed tracing for the vectordesk core using
// OpenTelemetry.
//
// The package wraps the OpenTelemetry SDK behind a small API: create spans,
// record errors, attach attributes, and move trace context across process
// boundaries as W3C Trace Context carriers. Span export goes through OTLP
// over HTTP when enabled; with export disabled, spans still exist in-process
// so the logger's *WithContext methods can correlate log entries with traces.
//
// # Usage
//
//	log := logger.NewLoggerClient(logger.DefaultConfig())
//	tracerClient := tracer.NewClient(tracer.Config{
//	    ServiceName:  "collection-browser",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	}, log)
//
//	ctx, span := tracerClient.StartSpan(ctx, "copy-collection")
//	defer span.End()
//
//	tracerClient.SetAttributes(span, map[string]interface{}{
//	    "source": "articles",
//	    "target": "articles-v2",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.DefaultConfig() }),
//	)
//
// The module flushes pending spans on application shutdown.
package tracer
