package pool

import "errors"

var (
	// ErrUnknownProfile reports an operation against a profile id the pool
	// holds no live connection for.
	ErrUnknownProfile = errors.New("pool: unknown profile")

	// ErrCopyInProgress reports a second copy started on a profile whose
	// previous copy has not finished.
	ErrCopyInProgress = errors.New("pool: copy already in progress")
)
