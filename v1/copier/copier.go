package copier

import (
	"context"
	"fmt"
	"time"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/vectordesk/core/v1/embedding"
	"github.com/vectordesk/core/v1/vectorstore"
)

// copyState is the per-invocation bookkeeping Copy threads through its
// helpers. Counts are cumulative and survive into terminal results.
type copyState struct {
	source, target vectorstore.Store
	params         Params
	onProgress     ProgressFunc
	batchSize      int
	total          int
	copied         int
	targetMade     bool
}

// Copy transfers one collection from source to target and returns a
// Result for every outcome; it never panics and never surfaces an error
// outside the Result. The target collection is created first with the
// source's metadata, dimension and metric, then all source documents are
// read in one bulk snapshot and written in fixed batches. Cancellation is
// honored before creation and at batch boundaries only; a cancelled copy
// removes the partially filled target best-effort. Batches that report
// per-document failures do not stop the copy, so a completed Result can
// carry fewer copied documents than the total.
func (c *Copier) Copy(ctx context.Context, source, target vectorstore.Store, params Params, onProgress ProgressFunc) (result Result) {
	started := time.Now()
	state := &copyState{
		source:     source,
		target:     target,
		params:     params,
		onProgress: onProgress,
		batchSize:  params.BatchSize,
	}
	if state.batchSize <= 0 {
		state.batchSize = vectorstore.DefaultBatchSize
	}

	var span traceSpan.Span
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("copy failed: %v", rec)
			c.log.Error("collection copy panicked", err, map[string]interface{}{
				"source": params.SourceCollection,
				"target": params.TargetCollection,
			})
			result = Result{
				Phase:           PhaseError,
				TotalDocuments:  state.total,
				CopiedDocuments: state.copied,
				Err:             err,
			}
		}
		if span != nil {
			if result.Err != nil {
				c.tracer.RecordErrorOnSpan(span, result.Err)
			}
			c.tracer.SetAttributes(span, map[string]interface{}{
				"copy.phase":            string(result.Phase),
				"copy.copied_documents": result.CopiedDocuments,
				"copy.total_documents":  result.TotalDocuments,
			})
			span.End()
		}
		c.observe("copy", params.SourceCollection, params.TargetCollection, started, int64(result.CopiedDocuments), result.Err)
	}()

	if c.tracer != nil {
		ctx, span = c.tracer.StartSpan(ctx, "copy-collection")
		attrs := map[string]interface{}{
			"copy.source.collection": params.SourceCollection,
			"copy.target.collection": params.TargetCollection,
			"copy.regenerate":        params.RegenerateEmbeddings,
		}
		if source != nil {
			attrs["copy.source.backend"] = string(source.Backend())
		}
		if target != nil {
			attrs["copy.target.backend"] = string(target.Backend())
		}
		c.tracer.SetAttributes(span, attrs)
	}

	return c.run(ctx, state)
}

func (c *Copier) run(ctx context.Context, state *copyState) Result {
	params := state.params

	if params.SourceCollection == "" || params.TargetCollection == "" {
		return c.fail(state, fmt.Errorf("copier: source and target collection names are required"))
	}
	if state.source == nil || state.target == nil {
		return c.fail(state, fmt.Errorf("copier: source and target stores are required"))
	}

	if ctx.Err() != nil {
		return c.cancelled(ctx, state, false)
	}

	if err := c.checkCrossStore(state); err != nil {
		return c.fail(state, err)
	}

	c.report(state, PhaseCreating, fmt.Sprintf("creating collection %q", params.TargetCollection))

	sourceInfo, err := state.source.GetCollection(ctx, params.SourceCollection)
	if err != nil {
		return c.fail(state, fmt.Errorf("reading source collection: %w", err))
	}

	spec := vectorstore.CollectionSpec{
		Name:              params.TargetCollection,
		Metadata:          cloneMetadata(sourceInfo.Metadata),
		Dimension:         sourceInfo.Dimension,
		EmbeddingFunction: c.effectiveDescriptor(state, sourceInfo),
	}
	if distance, ok := sourceInfo.Metadata["distance"].(string); ok {
		spec.Distance = distance
	}
	if _, err := state.target.CreateCollection(ctx, spec); err != nil {
		return c.fail(state, fmt.Errorf("creating target collection: %w", err))
	}
	state.targetMade = true

	docs, err := state.source.FetchAllDocuments(ctx, params.SourceCollection)
	if err != nil {
		return c.fail(state, fmt.Errorf("reading source documents: %w", err))
	}
	state.total = len(docs)
	if state.total == 0 {
		return c.complete(ctx, state)
	}

	c.log.Info("copying collection", nil, map[string]interface{}{
		"source":    params.SourceCollection,
		"target":    params.TargetCollection,
		"documents": state.total,
		"batches":   (state.total + state.batchSize - 1) / state.batchSize,
	})

	for start := 0; start < state.total; start += state.batchSize {
		if ctx.Err() != nil {
			return c.cancelled(ctx, state, true)
		}
		end := start + state.batchSize
		if end > state.total {
			end = state.total
		}
		batch := docs[start:end]
		if params.RegenerateEmbeddings {
			batch = stripVectors(batch)
		}

		batchNo := start/state.batchSize + 1
		res, err := state.target.CreateDocumentsBatch(ctx, params.TargetCollection, batch)
		if err != nil {
			return c.fail(state, fmt.Errorf("writing batch %d: %w", batchNo, err))
		}
		state.copied += len(res.CreatedIDs)

		msg := fmt.Sprintf("copied %d of %d documents", state.copied, state.total)
		if len(res.Errors) > 0 {
			c.log.Warn("batch reported failures", nil, map[string]interface{}{
				"target": params.TargetCollection,
				"batch":  batchNo,
				"errors": res.Errors,
			})
			msg = fmt.Sprintf("%s (batch %d had errors)", msg, batchNo)
		}
		c.report(state, PhaseCopying, msg)
	}

	return c.complete(ctx, state)
}

// checkCrossStore refuses a copy between two different store instances
// unless both adapters declare the capability. Two handles onto the same
// profile are not a cross-store pair.
func (c *Copier) checkCrossStore(state *copyState) error {
	sp, tp := state.source.Profile(), state.target.Profile()
	if sp == nil || tp == nil || sp.ID == tp.ID {
		return nil
	}
	for _, side := range []struct {
		store vectorstore.Store
		role  string
	}{
		{state.source, "source"},
		{state.target, "target"},
	} {
		if !side.store.Capabilities().CrossStoreCopy {
			return fmt.Errorf("%w: the %s %s backend cannot copy across stores, create the target manually",
				vectorstore.ErrUnsupportedOperation, side.role, side.store.Backend())
		}
	}
	return nil
}

// effectiveDescriptor picks the embedding function for the target
// collection: explicit params beat the persisted override for the target,
// which beats the source collection's own configuration.
func (c *Copier) effectiveDescriptor(state *copyState, sourceInfo *vectorstore.CollectionInfo) *embedding.Descriptor {
	if state.params.Descriptor != nil {
		return state.params.Descriptor
	}
	if c.overrides != nil {
		if tp := state.target.Profile(); tp != nil {
			if d := c.overrides.OverrideFor(tp.ID, state.params.TargetCollection); d != nil {
				c.log.Debug("using persisted embedding override for target", nil, map[string]interface{}{
					"collection": state.params.TargetCollection,
				})
				return d
			}
		}
	}
	return sourceInfo.EmbeddingFunction
}

func (c *Copier) complete(ctx context.Context, state *copyState) Result {
	count, err := state.target.CountDocuments(ctx, state.params.TargetCollection)
	if err != nil {
		return c.fail(state, fmt.Errorf("reading back target count: %w", err))
	}
	info, err := state.target.GetCollection(ctx, state.params.TargetCollection)
	if err != nil {
		return c.fail(state, fmt.Errorf("reading back target collection: %w", err))
	}
	final := *info
	final.Count = count

	c.log.Info("collection copy complete", nil, map[string]interface{}{
		"source":    state.params.SourceCollection,
		"target":    state.params.TargetCollection,
		"documents": count,
	})
	c.report(state, PhaseComplete, fmt.Sprintf("copied %d of %d documents", state.copied, state.total))
	return Result{
		Phase:           PhaseComplete,
		TotalDocuments:  state.total,
		CopiedDocuments: state.copied,
		Target:          &final,
	}
}

func (c *Copier) cancelled(ctx context.Context, state *copyState, cleanup bool) Result {
	if cleanup && state.targetMade {
		c.cleanupTarget(state.target, state.params.TargetCollection)
	}
	c.log.Info("collection copy cancelled", nil, map[string]interface{}{
		"source": state.params.SourceCollection,
		"target": state.params.TargetCollection,
		"copied": state.copied,
	})
	c.report(state, PhaseCancelled, fmt.Sprintf("copy cancelled after %d of %d documents", state.copied, state.total))
	return Result{
		Phase:           PhaseCancelled,
		TotalDocuments:  state.total,
		CopiedDocuments: state.copied,
		Err:             ctx.Err(),
	}
}

func (c *Copier) fail(state *copyState, err error) Result {
	c.log.Error("collection copy failed", err, map[string]interface{}{
		"source": state.params.SourceCollection,
		"target": state.params.TargetCollection,
	})
	c.report(state, PhaseError, err.Error())
	return Result{
		Phase:           PhaseError,
		TotalDocuments:  state.total,
		CopiedDocuments: state.copied,
		Err:             err,
	}
}

// cleanupTarget removes the partially filled target after a cancellation.
// The copy's own context is already done, so the delete runs on a fresh
// one; a cleanup failure is logged and swallowed because the cancelled
// outcome takes precedence.
func (c *Copier) cleanupTarget(target vectorstore.Store, name string) {
	if err := target.DeleteCollection(context.Background(), name); err != nil {
		c.log.Warn("could not remove partially copied collection", err, map[string]interface{}{
			"collection": name,
		})
	}
}

func (c *Copier) report(state *copyState, phase Phase, message string) {
	if state.onProgress == nil {
		return
	}
	state.onProgress(Progress{
		Phase:           phase,
		CopiedDocuments: state.copied,
		TotalDocuments:  state.total,
		Message:         message,
	})
}

func cloneMetadata(m map[string]interface{}) map[string]interface{} {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// stripVectors copies the batch without embeddings so the target adapter
// re-embeds from document text.
func stripVectors(docs []vectorstore.DocumentRecord) []vectorstore.DocumentRecord {
	out := make([]vectorstore.DocumentRecord, len(docs))
	for i, doc := range docs {
		doc.Embedding = nil
		out[i] = doc
	}
	return out
}
