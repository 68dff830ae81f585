package vectordb

import "time"

// Document is a single corpus chunk stored in the vector database.
type Document struct {
	ID       string
	Content  string
	Metadata Metadata
}

// Metadata describes where a chunk came from.
type Metadata struct {
	SourcePath string    // corpus file the chunk was cut from
	Title      string    // document title (file name without extension)
	ChunkIndex int       // position of the chunk within its file
	IndexedAt  time.Time // when the chunk was added to the index
}

// SearchResult pairs a document with its similarity to the query.
type SearchResult struct {
	Document   Document
	Similarity float32
}
