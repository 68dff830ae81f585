// Package embeddings turns corpus chunks and search queries into the vectors
// the similarity index is built on.
package embeddings

import "context"

// Embedder produces one embedding vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the width of the vectors this embedder produces.
	Dimensions() int

	// Name identifies the backing model for logs and diagnostics.
	Name() string
}
