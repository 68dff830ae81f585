package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"scribecast/internal/vectordb"
)

// handleResearch runs the retrieval pipeline for a topic and returns the
// composed prompt, so an agent can inspect exactly what the assistant would
// feed its completion model.
func (s *Server) handleResearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	bundle := s.aggregator.Gather(ctx, query)
	prompt := s.composer.Compose(s.persona, query, bundle)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Gathered %d context snippet(s) for %q.\n\n", bundle.Len(), query)
	sb.WriteString(prompt)
	return mcp.NewToolResultText(sb.String()), nil
}

// handleSearchCorpus performs semantic search over the corpus vector store.
func (s *Server) handleSearchCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	if s.store == nil {
		return mcp.NewToolResultError("no corpus index is loaded. Run `scribecast index` first."), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.store.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The corpus may not be indexed yet. Run `scribecast index` to index it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleGetHistory returns a session's turns in order.
func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	if s.turns == nil {
		return mcp.NewToolResultError("the session log is disabled on this server."), nil
	}

	turns, err := s.turns.History(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	if len(turns) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No turns recorded for session %q.", sessionID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Session %s (%d turns):\n", sessionID, len(turns))
	for _, t := range turns {
		fmt.Fprintf(&sb, "\n[%s] %s\n", t.Role, t.Content)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatSearchResults converts search results into a text format suitable
// for agent consumption.
func formatSearchResults(results []vectordb.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "\n--- Result %d ---\n", i+1)
		fmt.Fprintf(&sb, "Source: %s (chunk %d)\n", r.Document.Metadata.SourcePath, r.Document.Metadata.ChunkIndex)
		if r.Document.Metadata.Title != "" {
			fmt.Fprintf(&sb, "Title: %s\n", r.Document.Metadata.Title)
		}
		fmt.Fprintf(&sb, "Similarity: %.1f%%\n\n", r.Similarity*100)
		sb.WriteString(r.Document.Content)
		sb.WriteString("\n")
	}

	return sb.String()
}
