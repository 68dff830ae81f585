// Package mcp exposes the assistant's research tools over the Model Context
// Protocol on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"scribecast/internal/chatlog"
	"scribecast/internal/compose"
	"scribecast/internal/retrieval"
	"scribecast/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes retrieval and session tools.
type Server struct {
	aggregator *retrieval.Aggregator
	composer   *compose.Composer
	persona    string
	store      vectordb.VectorStore
	turns      *chatlog.Store
	mcp        *server.MCPServer
}

// NewServer creates the MCP server. store and turns may be nil; the
// corresponding tools then report that the feature is unavailable.
func NewServer(aggregator *retrieval.Aggregator, composer *compose.Composer, persona string, store vectordb.VectorStore, turns *chatlog.Store) *Server {
	s := &Server{
		aggregator: aggregator,
		composer:   composer,
		persona:    persona,
		store:      store,
		turns:      turns,
	}

	s.mcp = server.NewMCPServer(
		"scribecast",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(researchTool, s.handleResearch)
	s.mcp.AddTool(searchCorpusTool, s.handleSearchCorpus)
	s.mcp.AddTool(getHistoryTool, s.handleGetHistory)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
