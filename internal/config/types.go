package config

import "time"

// ProviderType identifies a completion or embedding provider.
type ProviderType string

const (
	ProviderOllama   ProviderType = "ollama"
	ProviderOpenAI   ProviderType = "openai"
	ProviderDeepSeek ProviderType = "deepseek"
)

// Config is the top-level scribecast configuration, corresponding to
// .scribecast.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	ExpertProvider    ProviderType `yaml:"expert_provider" koanf:"expert_provider"`
	ExpertModel       string       `yaml:"expert_model" koanf:"expert_model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	PersonaFile string `yaml:"persona_file" koanf:"persona_file"`
	DataDir     string `yaml:"data_dir" koanf:"data_dir"`
	CorpusDir   string `yaml:"corpus_dir" koanf:"corpus_dir"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	Port         int             `yaml:"port" koanf:"port"`
	PromptBudget int             `yaml:"prompt_budget" koanf:"prompt_budget"`
	Retrieval    RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
}

// RetrievalConfig bounds each context source's contribution to a prompt.
type RetrievalConfig struct {
	WebLimit    int `yaml:"web_limit" koanf:"web_limit"`
	WikiLimit   int `yaml:"wiki_limit" koanf:"wiki_limit"`
	ExpertLimit int `yaml:"expert_limit" koanf:"expert_limit"`
	CorpusLimit int `yaml:"corpus_limit" koanf:"corpus_limit"`

	WikiSentences int `yaml:"wiki_sentences" koanf:"wiki_sentences"`
	MinSnippetLen int `yaml:"min_snippet_len" koanf:"min_snippet_len"`
	MaxSnippets   int `yaml:"max_snippets" koanf:"max_snippets"`

	SourceTimeout time.Duration `yaml:"source_timeout" koanf:"source_timeout"`
	ExpertTimeout time.Duration `yaml:"expert_timeout" koanf:"expert_timeout"`
}
