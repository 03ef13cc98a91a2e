package embedding

import (
	"context"
	"fmt"
	"time"
)

// EmbedOne turns one text into a vector using the collection's resolved
// embedding function.
func (g *Generator) EmbedOne(ctx context.Context, collection, text string, descriptor *Descriptor) ([]float32, error) {
	vectors, err := g.EmbedMany(ctx, collection, []string{text}, descriptor)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedMany turns texts into vectors. All texts go to the provider in one
// batch call, never one at a time.
func (g *Generator) EmbedMany(ctx context.Context, collection string, texts []string, descriptor *Descriptor) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrNoInput
	}

	client, err := g.resolver.Resolve(ctx, collection, descriptor)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vectors, err := client.Embed(ctx, texts)
	g.observeEmbed(collection, client.Provider(), start, len(texts), err)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding: provider %s returned %d vectors for %d texts", client.Provider(), len(vectors), len(texts))
	}
	return vectors, nil
}
