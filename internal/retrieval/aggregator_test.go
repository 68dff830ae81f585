package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubSource returns canned snippets, optionally failing or hanging until its
// context expires.
type stubSource struct {
	origin   Origin
	snippets []Snippet
	err      error
	delay    time.Duration
}

func (s *stubSource) Origin() Origin { return s.origin }

func (s *stubSource) Fetch(ctx context.Context, query string, limit int) ([]Snippet, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.snippets) > limit {
		return s.snippets[:limit], nil
	}
	return s.snippets, nil
}

func testConfig() Config {
	budget := Budget{Limit: 5, Timeout: 200 * time.Millisecond}
	return Config{
		Budgets: map[Origin]Budget{
			OriginExpert:       budget,
			OriginEncyclopedia: budget,
			OriginWeb:          budget,
			OriginDocument:     budget,
		},
		MinSnippetLen: 20,
		MaxSnippets:   12,
	}
}

func snip(origin Origin, text string) Snippet {
	return Snippet{Text: text, Origin: origin}
}

func TestNewAggregatorRejectsMalformedPolicy(t *testing.T) {
	src := &stubSource{origin: OriginWeb}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing budget", Config{Budgets: map[Origin]Budget{}, MaxSnippets: 5}},
		{"zero limit", Config{Budgets: map[Origin]Budget{OriginWeb: {Limit: 0, Timeout: time.Second}}, MaxSnippets: 5}},
		{"zero timeout", Config{Budgets: map[Origin]Budget{OriginWeb: {Limit: 3, Timeout: 0}}, MaxSnippets: 5}},
		{"zero max snippets", Config{Budgets: map[Origin]Budget{OriginWeb: {Limit: 3, Timeout: time.Second}}, MaxSnippets: 0}},
		{"negative min length", Config{Budgets: map[Origin]Budget{OriginWeb: {Limit: 3, Timeout: time.Second}}, MinSnippetLen: -1, MaxSnippets: 5}},
	}
	for _, tc := range cases {
		if _, err := NewAggregator([]Source{src}, tc.cfg, nil); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	if _, err := NewAggregator(nil, testConfig(), nil); err == nil {
		t.Error("expected error for empty source list")
	}
	if _, err := NewAggregator([]Source{src, &stubSource{origin: OriginWeb}}, testConfig(), nil); err == nil {
		t.Error("expected error for duplicate origins")
	}
}

func TestGatherGroupsByOrigin(t *testing.T) {
	agg, err := NewAggregator([]Source{
		&stubSource{origin: OriginWeb, snippets: []Snippet{snip(OriginWeb, "EVs reduced emissions by 30% in 2023 per report X")}},
		&stubSource{origin: OriginEncyclopedia, snippets: []Snippet{snip(OriginEncyclopedia, "Electric vehicles use rechargeable batteries. They emit nothing at the tailpipe. Adoption keeps growing.")}},
		&stubSource{origin: OriginExpert, err: errors.New("model unreachable")},
		&stubSource{origin: OriginDocument},
	}, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	bundle := agg.Gather(context.Background(), "electric vehicles")

	if bundle.Len() != 2 {
		t.Fatalf("expected 2 snippets, got %d", bundle.Len())
	}
	if got := len(bundle.Section(OriginWeb)); got != 1 {
		t.Errorf("web section: got %d snippets, want 1", got)
	}
	if got := len(bundle.Section(OriginEncyclopedia)); got != 1 {
		t.Errorf("encyclopedia section: got %d snippets, want 1", got)
	}
	if len(bundle.Section(OriginExpert)) != 0 || len(bundle.Section(OriginDocument)) != 0 {
		t.Error("failed/empty sources must contribute nothing")
	}
}

func TestGatherDeduplicatesByPriority(t *testing.T) {
	shared := "Electric vehicles outsold diesel cars in Europe last quarter"
	agg, err := NewAggregator([]Source{
		&stubSource{origin: OriginWeb, snippets: []Snippet{snip(OriginWeb, shared)}},
		&stubSource{origin: OriginExpert, snippets: []Snippet{snip(OriginExpert, "  "+shared+" ")}}, // same text, different case/spacing below
		&stubSource{origin: OriginEncyclopedia, snippets: []Snippet{snip(OriginEncyclopedia, "ELECTRIC VEHICLES OUTSOLD DIESEL CARS IN EUROPE LAST QUARTER")}},
		&stubSource{origin: OriginDocument},
	}, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	bundle := agg.Gather(context.Background(), "electric vehicles")

	if bundle.Len() != 1 {
		t.Fatalf("expected 1 snippet after dedup, got %d", bundle.Len())
	}
	if got := len(bundle.Section(OriginExpert)); got != 1 {
		t.Errorf("the highest-priority occurrence must survive; expert section has %d", got)
	}
}

func TestGatherDropsShortSnippets(t *testing.T) {
	agg, err := NewAggregator([]Source{
		&stubSource{origin: OriginWeb, snippets: []Snippet{
			snip(OriginWeb, "too short"),
			snip(OriginWeb, "this snippet is comfortably over the minimum length"),
		}},
	}, Config{
		Budgets:       map[Origin]Budget{OriginWeb: {Limit: 5, Timeout: 200 * time.Millisecond}},
		MinSnippetLen: 20,
		MaxSnippets:   12,
	}, nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	bundle := agg.Gather(context.Background(), "anything")
	if bundle.Len() != 1 {
		t.Fatalf("expected 1 snippet, got %d", bundle.Len())
	}
}

func TestGatherCapsTotalTrimmingLowPriorityFirst(t *testing.T) {
	mk := func(origin Origin, base string, n int) *stubSource {
		var snips []Snippet
		for i := 0; i < n; i++ {
			snips = append(snips, snip(origin, base+" variant number "+string(rune('A'+i))+" with enough length"))
		}
		return &stubSource{origin: origin, snippets: snips}
	}

	cfg := testConfig()
	cfg.MaxSnippets = 4
	agg, err := NewAggregator([]Source{
		mk(OriginDocument, "document excerpt", 3),
		mk(OriginWeb, "web result", 3),
		mk(OriginEncyclopedia, "encyclopedia entry", 2),
		mk(OriginExpert, "expert point", 2),
	}, cfg, nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	bundle := agg.Gather(context.Background(), "capped")

	if bundle.Len() != 4 {
		t.Fatalf("expected total capped at 4, got %d", bundle.Len())
	}
	if got := len(bundle.Section(OriginExpert)); got != 2 {
		t.Errorf("expert section: got %d, want 2", got)
	}
	if got := len(bundle.Section(OriginEncyclopedia)); got != 2 {
		t.Errorf("encyclopedia section: got %d, want 2", got)
	}
	if len(bundle.Section(OriginWeb)) != 0 || len(bundle.Section(OriginDocument)) != 0 {
		t.Error("lowest-priority origins must be trimmed first")
	}
}

func TestGatherTimesOutSlowSource(t *testing.T) {
	cfg := Config{
		Budgets: map[Origin]Budget{
			OriginWeb:    {Limit: 5, Timeout: 50 * time.Millisecond},
			OriginExpert: {Limit: 5, Timeout: 50 * time.Millisecond},
		},
		MinSnippetLen: 10,
		MaxSnippets:   12,
	}
	agg, err := NewAggregator([]Source{
		&stubSource{origin: OriginExpert, delay: 2 * time.Second, snippets: []Snippet{snip(OriginExpert, "arrives far too late to matter")}},
		&stubSource{origin: OriginWeb, snippets: []Snippet{snip(OriginWeb, "fast web result within budget")}},
	}, cfg, nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	start := time.Now()
	bundle := agg.Gather(context.Background(), "latency")
	elapsed := time.Since(start)

	if bundle.Len() != 1 {
		t.Fatalf("expected only the fast source's snippet, got %d", bundle.Len())
	}
	if len(bundle.Section(OriginWeb)) != 1 {
		t.Error("fast source contribution missing")
	}
	if elapsed > time.Second {
		t.Errorf("gather took %s; must be bounded by the slowest permitted source", elapsed)
	}
}

func TestGatherAllEmptyIsNotAnError(t *testing.T) {
	agg, err := NewAggregator([]Source{
		&stubSource{origin: OriginWeb, err: errors.New("down")},
		&stubSource{origin: OriginExpert, err: errors.New("down")},
		&stubSource{origin: OriginEncyclopedia},
		&stubSource{origin: OriginDocument},
	}, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	bundle := agg.Gather(context.Background(), "nothing anywhere")
	if !bundle.IsEmpty() {
		t.Errorf("expected empty bundle, got %d snippets", bundle.Len())
	}
}
