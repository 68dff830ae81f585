package retrieval

import (
	"context"

	"scribecast/internal/vectordb"
)

// Corpus runs nearest-neighbor lookups against the prebuilt document index.
// Chunking and embedding policy belong to the indexer; this source only
// consumes the query interface.
type Corpus struct {
	store vectordb.VectorStore
}

// NewCorpus creates a document corpus source over the given store.
func NewCorpus(store vectordb.VectorStore) *Corpus {
	return &Corpus{store: store}
}

func (s *Corpus) Origin() Origin { return OriginDocument }

func (s *Corpus) Fetch(ctx context.Context, query string, limit int) ([]Snippet, error) {
	if limit <= 0 || s.store == nil {
		return nil, nil
	}

	results, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	snippets := make([]Snippet, 0, len(results))
	for i, r := range results {
		snippets = append(snippets, Snippet{Text: r.Document.Content, Origin: OriginDocument, Rank: i})
	}
	return snippets, nil
}
