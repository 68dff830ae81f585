package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// aggregateSlack is how long Gather keeps waiting past the largest per-source
// timeout before abandoning sources that ignore their context.
const aggregateSlack = 250 * time.Millisecond

// Budget bounds one source's contribution: at most Limit snippets, returned
// within Timeout.
type Budget struct {
	Limit   int
	Timeout time.Duration
}

// Config holds the aggregation policy.
type Config struct {
	Budgets       map[Origin]Budget
	MinSnippetLen int // snippets shorter than this are dropped as noise
	MaxSnippets   int // total cap across all origins
}

// Aggregator fans a query out to all sources concurrently, tolerates partial
// failure, and assembles a deduplicated bundle. Wall-clock latency is bounded
// by the slowest permitted source, not the sum of all of them.
type Aggregator struct {
	sources []Source
	cfg     Config
	log     *zap.Logger
}

// NewAggregator validates the aggregation policy and returns an Aggregator.
// A malformed policy is the only error this pipeline ever surfaces; source
// failures at runtime degrade silently to empty contributions.
func NewAggregator(sources []Source, cfg Config, log *zap.Logger) (*Aggregator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}
	if cfg.MinSnippetLen < 0 {
		return nil, fmt.Errorf("min snippet length must be non-negative, got %d", cfg.MinSnippetLen)
	}
	if cfg.MaxSnippets <= 0 {
		return nil, fmt.Errorf("max snippet count must be positive, got %d", cfg.MaxSnippets)
	}

	seen := make(map[Origin]bool, len(sources))
	for _, src := range sources {
		origin := src.Origin()
		if seen[origin] {
			return nil, fmt.Errorf("duplicate source for origin %q", origin)
		}
		seen[origin] = true

		b, ok := cfg.Budgets[origin]
		if !ok {
			return nil, fmt.Errorf("no budget configured for origin %q", origin)
		}
		if b.Limit <= 0 {
			return nil, fmt.Errorf("budget limit for origin %q must be positive, got %d", origin, b.Limit)
		}
		if b.Timeout <= 0 {
			return nil, fmt.Errorf("budget timeout for origin %q must be positive, got %s", origin, b.Timeout)
		}
	}

	return &Aggregator{sources: sources, cfg: cfg, log: log}, nil
}

type fetchResult struct {
	origin   Origin
	snippets []Snippet
	err      error
	elapsed  time.Duration
}

// Gather dispatches every source concurrently under its own timeout and
// merges whatever came back in time. An all-empty result is a valid bundle,
// not an error; the composer handles context-free prompts.
func (a *Aggregator) Gather(ctx context.Context, query string) Bundle {
	results := make(chan fetchResult, len(a.sources))

	var maxTimeout time.Duration
	for _, src := range a.sources {
		budget := a.cfg.Budgets[src.Origin()]
		if budget.Timeout > maxTimeout {
			maxTimeout = budget.Timeout
		}
		go func(src Source, budget Budget) {
			start := time.Now()
			fctx, cancel := context.WithTimeout(ctx, budget.Timeout)
			defer cancel()
			snippets, err := src.Fetch(fctx, query, budget.Limit)
			// Buffered channel: a late send after Gather returned cannot
			// leak this goroutine.
			results <- fetchResult{
				origin:   src.Origin(),
				snippets: snippets,
				err:      err,
				elapsed:  time.Since(start),
			}
		}(src, budget)
	}

	deadline := time.NewTimer(maxTimeout + aggregateSlack)
	defer deadline.Stop()

	collected := make(map[Origin][]Snippet, len(a.sources))

collect:
	for pending := len(a.sources); pending > 0; pending-- {
		select {
		case r := <-results:
			if r.err != nil {
				a.log.Warn("source failed, dropping its contribution",
					zap.String("origin", string(r.origin)),
					zap.Duration("elapsed", r.elapsed),
					zap.Error(r.err))
				continue
			}
			collected[r.origin] = r.snippets
		case <-deadline.C:
			a.log.Warn("stopped waiting for slow sources", zap.Int("pending", pending))
			break collect
		case <-ctx.Done():
			a.log.Warn("gather canceled", zap.Int("pending", pending), zap.Error(ctx.Err()))
			break collect
		}
	}

	return a.assemble(collected)
}

// assemble filters, deduplicates, and caps the collected snippets. Origins
// are visited highest priority first, so the total cap trims low-priority
// contributions and dedup keeps the high-priority occurrence.
func (a *Aggregator) assemble(collected map[Origin][]Snippet) Bundle {
	seen := make(map[string]struct{})
	sections := make(map[Origin][]Snippet)
	total := 0

assembleLoop:
	for _, origin := range originPriority {
		for _, sn := range collected[origin] {
			text := strings.TrimSpace(sn.Text)
			if len(text) < a.cfg.MinSnippetLen {
				continue
			}
			key := strings.ToLower(text)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			sections[origin] = append(sections[origin], Snippet{
				Text:   text,
				Origin: origin,
				Rank:   len(sections[origin]),
			})
			total++
			if total >= a.cfg.MaxSnippets {
				break assembleLoop
			}
		}
	}

	return NewBundle(sections)
}
