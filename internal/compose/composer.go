package compose

import (
	"fmt"
	"strings"

	"scribecast/internal/retrieval"
)

const (
	// DefaultBudget is the prompt size ceiling in bytes.
	DefaultBudget = 6000

	// sentenceSlack is how many bytes we are willing to give up to end a
	// truncated snippet on a sentence boundary instead of mid-text.
	sentenceSlack = 120
)

// closingInstructions always ends the prompt. It is never truncated.
const closingInstructions = `Now, write a narration script for the topic above. If it suits short-form, keep it crisp. If it needs long-form, give full details. Use a conversational tone with concrete examples, and end with the channel's signature outro.`

var sectionLabels = map[retrieval.Origin]string{
	retrieval.OriginExpert:       "Expert insights:",
	retrieval.OriginEncyclopedia: "Encyclopedia summary:",
	retrieval.OriginWeb:          "Web search results:",
	retrieval.OriginDocument:     "Document excerpts:",
}

// Composer assembles the final completion prompt from the persona, the query,
// and the gathered context bundle.
type Composer struct {
	budget int
}

// New creates a Composer with the given character budget; non-positive means
// DefaultBudget.
func New(budget int) *Composer {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Composer{budget: budget}
}

// Compose renders the prompt. It is a pure function of its inputs: identical
// inputs always produce byte-identical output.
//
// Layout: persona, query restatement, one labeled section per non-empty
// origin in priority order, closing instructions. Empty sections are omitted
// entirely. When the budget is tight, lowest-priority sections shrink first;
// the persona, the query line, and the closing instructions always survive
// intact.
func (c *Composer) Compose(identity, query string, bundle retrieval.Bundle) string {
	var head strings.Builder
	if identity != "" {
		head.WriteString(identity)
		head.WriteString("\n\n")
	}
	fmt.Fprintf(&head, "User asked: %q\n", query)

	footer := "\n" + closingInstructions + "\n"

	remaining := c.budget - head.Len() - len(footer)

	var sections strings.Builder
	for _, origin := range retrieval.OriginsByPriority() {
		snips := bundle.Section(origin)
		if len(snips) == 0 {
			continue
		}
		block := renderSection(origin, snips)
		if len(block) <= remaining {
			sections.WriteString(block)
			remaining -= len(block)
			continue
		}
		if shrunk := shrinkSection(origin, snips, remaining); shrunk != "" {
			sections.WriteString(shrunk)
			remaining -= len(shrunk)
		}
	}

	return head.String() + sections.String() + footer
}

func renderSection(origin retrieval.Origin, snips []retrieval.Snippet) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(sectionLabels[origin])
	b.WriteString("\n")
	for _, sn := range snips {
		b.WriteString(sn.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// shrinkSection fits as much of a section as the budget allows: first by
// dropping whole snippets from the end, then by cutting the first snippet at
// a sentence boundary. Returns "" when nothing useful fits.
func shrinkSection(origin retrieval.Origin, snips []retrieval.Snippet, budget int) string {
	for n := len(snips) - 1; n > 0; n-- {
		block := renderSection(origin, snips[:n])
		if len(block) <= budget {
			return block
		}
	}

	overhead := len("\n") + len(sectionLabels[origin]) + len("\n") + len("\n")
	avail := budget - overhead
	if avail < 40 {
		return ""
	}
	cut := truncateAtSentence(snips[0].Text, avail)
	if cut == "" {
		return ""
	}
	return "\n" + sectionLabels[origin] + "\n" + cut + "\n"
}

// truncateAtSentence shortens text to at most max bytes, ending on a sentence
// boundary when one exists within sentenceSlack of the cut point.
func truncateAtSentence(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	window := text[:max]
	if idx := strings.LastIndex(window, ". "); idx >= 0 && idx+1 >= max-sentenceSlack {
		return window[:idx+1]
	}
	if idx := strings.LastIndex(window, " "); idx > 0 {
		window = window[:idx]
	}
	return strings.TrimSpace(window)
}
