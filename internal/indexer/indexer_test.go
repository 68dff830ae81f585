package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribecast/internal/vectordb"
)

type fakeStore struct {
	docs []vectordb.Document
	err  error
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []vectordb.Document) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, docs...)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, query string, limit int) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (f *fakeStore) Persist(ctx context.Context, dir string) error { return nil }
func (f *fakeStore) Load(ctx context.Context, dir string) error    { return nil }
func (f *fakeStore) Count() int                                    { return len(f.docs) }

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestListFilesFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes/b.md", "second file")
	writeFile(t, root, "notes/a.md", "first file")
	writeFile(t, root, "notes/skip.txt", "wrong extension")
	writeFile(t, root, ".git/config", "should be skipped")

	files, err := ListFiles(root, []string{"**/*.md"}, nil, 0)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	if files[0].RelPath != "notes/a.md" || files[1].RelPath != "notes/b.md" {
		t.Errorf("files not sorted by relative path: %+v", files)
	}
}

func TestListFilesEmptyIncludeMatchesAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "some content here")
	writeFile(t, root, "b.md", "other content here")

	files, err := ListFiles(root, nil, nil, 0)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected all files included, got %d", len(files))
	}
}

func TestListFilesExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.md", "keep this file")
	writeFile(t, root, "drop.md", "drop this file")

	files, err := ListFiles(root, nil, []string{"drop.md"}, 0)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.md" {
		t.Errorf("exclude did not apply: %+v", files)
	}
}

func TestListFilesSkipsBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "text.md", "plain text")
	writeFile(t, root, "blob.md", "has a \x00 nul byte")

	files, err := ListFiles(root, nil, nil, 0)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "text.md" {
		t.Errorf("binary file not skipped: %+v", files)
	}
}

func TestListFilesSkipsOversized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.md", "fits")
	writeFile(t, root, "big.md", strings.Repeat("x", 100))

	files, err := ListFiles(root, nil, nil, 50)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "small.md" {
		t.Errorf("oversized file not skipped: %+v", files)
	}
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short text", 100, 10)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("short input must yield one chunk, got %+v", chunks)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	if got := ChunkText("   \n\t ", 100, 10); got != nil {
		t.Errorf("whitespace input must yield no chunks, got %+v", got)
	}
}

func TestChunkTextSplitsAtWhitespace(t *testing.T) {
	var words []string
	for i := 0; i < 100; i++ {
		words = append(words, fmt.Sprintf("word%02d", i))
	}
	text := strings.Join(words, " ")

	chunks := ChunkText(text, 150, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 150 {
			t.Errorf("chunk %d exceeds size: %d bytes", i, len(c))
		}
		for _, w := range strings.Fields(c) {
			if !strings.HasPrefix(w, "word") {
				t.Errorf("chunk %d contains a split word %q", i, w)
			}
		}
	}
}

func TestChunkTextOverlap(t *testing.T) {
	var words []string
	for i := 0; i < 100; i++ {
		words = append(words, fmt.Sprintf("word%02d", i))
	}
	text := strings.Join(words, " ")

	chunks := ChunkText(text, 150, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// The tail of each chunk should reappear at the head of the next.
	for i := 0; i < len(chunks)-1; i++ {
		tail := strings.Fields(chunks[i])
		head := strings.Fields(chunks[i+1])
		if len(tail) == 0 || len(head) == 0 {
			continue
		}
		last := tail[len(tail)-1]
		found := false
		for _, w := range head[:min(len(head), 6)] {
			if w == last {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("chunk %d's last word %q missing from chunk %d's head", i, last, i+1)
		}
	}
}

func TestChunkTextNoWhitespaceHardCut(t *testing.T) {
	text := strings.Repeat("a", 500)
	chunks := ChunkText(text, 100, 10)
	if len(chunks) < 5 {
		t.Fatalf("expected hard cuts for unbroken text, got %d chunks", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total < 500 {
		t.Errorf("hard cuts lost content: %d of 500 bytes covered", total)
	}
}

func TestPipelineRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "topics/evs.md", "Electric vehicles are transforming transport. "+strings.Repeat("More detail. ", 50))
	writeFile(t, root, "topics/space.md", "Rockets are getting cheaper to launch.")

	store := &fakeStore{}
	stats, err := NewPipeline(store, nil, nil).Run(context.Background(), Options{
		Root:      root,
		Include:   []string{"**/*.md"},
		ChunkSize: 200,
		Overlap:   40,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Files != 2 {
		t.Errorf("files: got %d, want 2", stats.Files)
	}
	if stats.Chunks != len(store.docs) {
		t.Errorf("stats.Chunks %d != stored docs %d", stats.Chunks, len(store.docs))
	}
	if stats.Chunks < 3 {
		t.Errorf("expected the long file to produce multiple chunks, got %d total", stats.Chunks)
	}

	for _, doc := range store.docs {
		if doc.Metadata.SourcePath == "" || doc.Metadata.Title == "" {
			t.Errorf("document missing metadata: %+v", doc.Metadata)
		}
		wantID := fmt.Sprintf("%s:%d", doc.Metadata.SourcePath, doc.Metadata.ChunkIndex)
		if doc.ID != wantID {
			t.Errorf("doc id: got %q, want %q", doc.ID, wantID)
		}
	}
}

func TestPipelineRunEmptyCorpus(t *testing.T) {
	store := &fakeStore{}
	stats, err := NewPipeline(store, nil, nil).Run(context.Background(), Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Files != 0 || stats.Chunks != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestPipelineRunStoreFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "some indexable content here")

	store := &fakeStore{err: fmt.Errorf("store unavailable")}
	if _, err := NewPipeline(store, nil, nil).Run(context.Background(), Options{Root: root}); err == nil {
		t.Error("expected store failure to surface")
	}
}

func TestTitleFor(t *testing.T) {
	if got := titleFor("topics/electric-vehicles.md"); got != "electric-vehicles" {
		t.Errorf("titleFor: got %q", got)
	}
	if got := titleFor("plain"); got != "plain" {
		t.Errorf("titleFor: got %q", got)
	}
}
