package copier

import (
	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/observability"
	"github.com/vectordesk/core/v1/tracer"
)

//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=copier

// Logger captures the logging methods the copier emits on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Copier drives collection copies between two connected stores. It is
// stateless and safe for concurrent use; per-copy state lives on the
// stack of each Copy call.
type Copier struct {
	log       Logger
	tracer    *tracer.Tracer
	observer  observability.Observer
	overrides embedding.OverrideSource
}

// NewCopier constructs a copier. tracer, observer and overrides may each
// be nil: spans, operation reporting and the override rung of descriptor
// precedence are then skipped.
func NewCopier(log Logger, trc *tracer.Tracer, observer observability.Observer, overrides embedding.OverrideSource) *Copier {
	return &Copier{
		log:       log,
		tracer:    trc,
		observer:  observer,
		overrides: overrides,
	}
}
