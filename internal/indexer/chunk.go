package indexer

import "strings"

const (
	// DefaultChunkSize is the target chunk length in bytes.
	DefaultChunkSize = 1000
	// DefaultOverlap is how many bytes consecutive chunks share, so a fact
	// straddling a cut point still lands whole in one chunk.
	DefaultOverlap = 200
)

// ChunkText splits text into overlapping chunks of roughly size bytes,
// preferring to cut at whitespace. Whitespace-only input yields no chunks.
func ChunkText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}

		// Back up to the last whitespace so words stay intact.
		cut := end
		for cut > start && !isSpace(text[cut-1]) {
			cut--
		}
		if cut == start {
			cut = end // no whitespace in the window, hard cut
		}

		chunk := strings.TrimSpace(text[start:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = cut // overlap would stall the scan
		}
		// Advance to the next word boundary so overlapping chunks never
		// open with a word fragment.
		for next < cut && !isSpace(text[next-1]) {
			next++
		}
		start = next
	}
	return chunks
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
