package retrieval

import "context"

// Origin identifies which knowledge source produced a snippet.
type Origin string

const (
	OriginExpert       Origin = "expert"
	OriginEncyclopedia Origin = "encyclopedia"
	OriginWeb          Origin = "web"
	OriginDocument     Origin = "document"
)

// originPriority lists origins from highest to lowest priority.
// Deduplication, the bundle total cap, and prompt truncation all follow
// this order.
var originPriority = []Origin{OriginExpert, OriginEncyclopedia, OriginWeb, OriginDocument}

// OriginsByPriority returns all origins, highest priority first.
func OriginsByPriority() []Origin {
	out := make([]Origin, len(originPriority))
	copy(out, originPriority)
	return out
}

// Snippet is a bounded unit of retrieved text with a known origin.
// Equality for deduplication uses the case-folded trimmed text.
type Snippet struct {
	Text   string
	Origin Origin
	Rank   int // relative order within its origin
}

// Source adapts one external knowledge source to the snippet contract.
// Implementations return explicit errors for observability; the Aggregator
// collapses every error to an empty contribution, so one source's failure
// never reaches the caller.
type Source interface {
	Origin() Origin
	Fetch(ctx context.Context, query string, limit int) ([]Snippet, error)
}

// Bundle is the aggregated, deduplicated context for one query, grouped by
// origin. It is assembled once by the Aggregator and read-only afterwards.
type Bundle struct {
	sections map[Origin][]Snippet
	total    int
}

// NewBundle builds a bundle from snippets grouped by origin.
func NewBundle(sections map[Origin][]Snippet) Bundle {
	copied := make(map[Origin][]Snippet, len(sections))
	total := 0
	for origin, snips := range sections {
		if len(snips) == 0 {
			continue
		}
		copied[origin] = append([]Snippet(nil), snips...)
		total += len(snips)
	}
	return Bundle{sections: copied, total: total}
}

// Section returns the snippets for one origin, in rank order.
func (b Bundle) Section(origin Origin) []Snippet {
	return b.sections[origin]
}

// Len returns the total snippet count across all origins.
func (b Bundle) Len() int { return b.total }

// IsEmpty reports whether no source contributed anything.
func (b Bundle) IsEmpty() bool { return b.total == 0 }
