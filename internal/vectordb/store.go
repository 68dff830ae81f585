package vectordb

import "context"

// VectorStore is the read/write interface over the corpus similarity index.
// The retrieval pipeline only ever calls Search; the indexer owns writes.
type VectorStore interface {
	AddDocuments(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	Persist(ctx context.Context, dir string) error
	Load(ctx context.Context, dir string) error
	Count() int
}
