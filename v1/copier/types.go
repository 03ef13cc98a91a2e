package copier

import (
	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// Phase is the copy state machine position. The flow is creating,
// copying, complete; error and cancelled are terminal from anywhere.
type Phase string

const (
	PhaseCreating  Phase = "creating"
	PhaseCopying   Phase = "copying"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
	PhaseCancelled Phase = "cancelled"
)

// Params names the collections to copy between and tunes the transfer.
type Params struct {
	// SourceCollection is read in full from the source store.
	SourceCollection string

	// TargetCollection is created on the target store; the copy fails if
	// it already exists.
	TargetCollection string

	// Descriptor, when non-nil, is the embedding function for the target
	// collection and beats both the persisted override and the source
	// collection's own configuration.
	Descriptor *embedding.Descriptor

	// BatchSize is the number of documents written per batch. Zero means
	// the default batch size. Cancellation is honored and progress
	// reported at batch boundaries.
	BatchSize int

	// RegenerateEmbeddings drops the source vectors and lets the target
	// re-embed every batch from document text instead of carrying the
	// vectors over byte for byte.
	RegenerateEmbeddings bool
}

// Progress is one progress callback payload. Counts are cumulative.
type Progress struct {
	Phase           Phase  `json:"phase"`
	CopiedDocuments int    `json:"copied_documents"`
	TotalDocuments  int    `json:"total_documents"`
	Message         string `json:"message"`
}

// ProgressFunc receives progress after every phase change and batch. It
// runs on the copy's goroutine, so it must not block for long.
type ProgressFunc func(Progress)

// Result is the single outcome of a copy. Copy never returns out-of-band
// errors; failures arrive here with Phase error or cancelled and Err set.
type Result struct {
	Phase           Phase                       `json:"phase"`
	TotalDocuments  int                         `json:"total_documents"`
	CopiedDocuments int                         `json:"copied_documents"`
	Target          *vectorstore.CollectionInfo `json:"target,omitempty"`
	Err             error                       `json:"-"`
}
