package mcp

import "github.com/mark3labs/mcp-go/mcp"

// researchTool defines the research MCP tool.
var researchTool = mcp.NewTool("research",
	mcp.WithDescription("Gather multi-source research context for a topic and return the composed script-writing prompt. Sources: expert model, encyclopedia, web search, indexed corpus."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Topic to research"),
	),
)

// searchCorpusTool defines the search_corpus MCP tool.
var searchCorpusTool = mcp.NewTool("search_corpus",
	mcp.WithDescription("Search the indexed document corpus semantically. Returns the most similar chunks with their source files."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
)

// getHistoryTool defines the get_history MCP tool.
var getHistoryTool = mcp.NewTool("get_history",
	mcp.WithDescription("Get the full turn history of a chat session in order."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session identifier returned by the chat API"),
	),
)
