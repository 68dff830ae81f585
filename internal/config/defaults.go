package config

import "time"

// DefaultExcludes are glob patterns excluded from corpus indexing by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"*.lock",
	"*.bin",
	"*.png",
	"*.jpg",
	"*.pdf",
}

// DefaultConfig returns a Config with sensible defaults: local Ollama models,
// a reasoning model for the expert source, and conservative retrieval budgets.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOllama,
		Model:             "mistral",
		ExpertProvider:    ProviderOllama,
		ExpertModel:       "deepseek-r1:8b",
		EmbeddingProvider: ProviderOllama,
		EmbeddingModel:    "nomic-embed-text",
		PersonaFile:       "persona.txt",
		DataDir:           ".scribecast",
		CorpusDir:         "corpus",
		Include:           []string{"**/*.txt", "**/*.md"},
		Exclude:           DefaultExcludes,
		Port:              8080,
		PromptBudget:      6000,
		Retrieval: RetrievalConfig{
			WebLimit:      3,
			WikiLimit:     1,
			ExpertLimit:   1,
			CorpusLimit:   2,
			WikiSentences: 3,
			MinSnippetLen: 20,
			MaxSnippets:   12,
			SourceTimeout: 10 * time.Second,
			ExpertTimeout: 20 * time.Second,
		},
	}
}
