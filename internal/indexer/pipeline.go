package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"scribecast/internal/progress"
	"scribecast/internal/vectordb"
)

// Options controls a corpus indexing run.
type Options struct {
	Root        string   // corpus directory
	Include     []string // glob patterns, empty means everything
	Exclude     []string
	ChunkSize   int // 0 means DefaultChunkSize
	Overlap     int // negative means DefaultOverlap
	MaxFileSize int64
}

// Stats summarizes an indexing run.
type Stats struct {
	Files  int
	Chunks int
}

// Pipeline reads the corpus, chunks it, and writes the chunks to the vector
// store.
type Pipeline struct {
	store    vectordb.VectorStore
	reporter progress.Reporter
	log      *zap.Logger
}

// NewPipeline creates an indexing pipeline. reporter may be nil.
func NewPipeline(store vectordb.VectorStore, reporter progress.Reporter, log *zap.Logger) *Pipeline {
	if reporter == nil {
		reporter = &progress.NopReporter{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{store: store, reporter: reporter, log: log}
}

// Run indexes the corpus described by opts. Unreadable files are skipped
// with a warning; a file that yields no chunks is counted but contributes
// nothing.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Stats, error) {
	files, err := ListFiles(opts.Root, opts.Include, opts.Exclude, opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &Stats{}, nil
	}

	p.reporter.Start(len(files))
	defer p.reporter.Finish()

	stats := &Stats{}
	now := time.Now()

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.reporter.Update(i+1, file.RelPath)

		data, err := os.ReadFile(file.Path)
		if err != nil {
			p.log.Warn("skipping unreadable corpus file",
				zap.String("path", file.RelPath),
				zap.Error(err))
			continue
		}

		chunks := ChunkText(string(data), opts.ChunkSize, opts.Overlap)
		stats.Files++
		if len(chunks) == 0 {
			continue
		}

		title := titleFor(file.RelPath)
		docs := make([]vectordb.Document, 0, len(chunks))
		for j, chunk := range chunks {
			docs = append(docs, vectordb.Document{
				ID:      fmt.Sprintf("%s:%d", file.RelPath, j),
				Content: chunk,
				Metadata: vectordb.Metadata{
					SourcePath: file.RelPath,
					Title:      title,
					ChunkIndex: j,
					IndexedAt:  now,
				},
			})
		}

		if err := p.store.AddDocuments(ctx, docs); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", file.RelPath, err)
		}
		stats.Chunks += len(docs)
	}

	p.log.Info("corpus indexed",
		zap.Int("files", stats.Files),
		zap.Int("chunks", stats.Chunks))
	return stats, nil
}

// titleFor derives a document title from the relative path: the base name
// without its extension.
func titleFor(relPath string) string {
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
