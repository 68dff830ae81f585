package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scribecast/internal/llm"
)

const expertPromptTemplate = `You are a subject-matter expert preparing research notes for a script writer.
Give a concise expert-level analysis of the topic below: the key facts, recent
developments, and one non-obvious insight. Plain prose, no headings.

Topic: %s`

// Expert asks a local model for an analytical take on the query. When the
// model is unreachable it degrades to a single clearly tagged fallback
// snippet rather than failing, so downstream consumers can still tell a
// degraded response from live data. A call that exceeds its time budget is
// not "unreachable": the error surfaces and the aggregator drops the
// contribution like any other timed-out source.
type Expert struct {
	provider llm.Provider
	model    string
}

// NewExpert creates an expert source backed by the given completion provider.
func NewExpert(provider llm.Provider, model string) *Expert {
	return &Expert{provider: provider, model: model}
}

func (s *Expert) Origin() Origin { return OriginExpert }

func (s *Expert) Fetch(ctx context.Context, query string, limit int) ([]Snippet, error) {
	if limit <= 0 {
		return nil, nil
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(expertPromptTemplate, query)},
		},
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return []Snippet{{Text: expertFallback(query), Origin: OriginExpert}}, nil
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return nil, nil
	}
	return []Snippet{{Text: text, Origin: OriginExpert}}, nil
}

// expertFallback is the fixed-format degraded response. The prefix marks it
// as a fallback so it is never mistaken for live analysis.
func expertFallback(query string) string {
	return fmt.Sprintf("Expert analysis unavailable: no live model response for %q. Treat the encyclopedia and web context as primary.", query)
}
