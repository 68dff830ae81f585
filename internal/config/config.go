// Package config loads and validates the scribecast configuration from
// .scribecast.yml with SCRIBECAST_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SCRIBECAST_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// SCRIBECAST_PROVIDER -> provider, SCRIBECAST_RETRIEVAL_WEB_LIMIT is not
	// nested; dots come from double underscores: SCRIBECAST_RETRIEVAL__WEB_LIMIT.
	if err := k.Load(env.Provider("SCRIBECAST_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "SCRIBECAST_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOllama:   true,
	ProviderOpenAI:   true,
	ProviderDeepSeek: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of ollama, openai, deepseek", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.ExpertProvider != "" && !validProviders[c.ExpertProvider] {
		return fmt.Errorf("invalid expert_provider %q", c.ExpertProvider)
	}
	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.PromptBudget <= 0 {
		return fmt.Errorf("prompt_budget must be positive, got %d", c.PromptBudget)
	}

	r := c.Retrieval
	for name, v := range map[string]int{
		"web_limit":    r.WebLimit,
		"wiki_limit":   r.WikiLimit,
		"expert_limit": r.ExpertLimit,
		"corpus_limit": r.CorpusLimit,
		"max_snippets": r.MaxSnippets,
	} {
		if v <= 0 {
			return fmt.Errorf("retrieval.%s must be positive, got %d", name, v)
		}
	}
	if r.MinSnippetLen < 0 {
		return fmt.Errorf("retrieval.min_snippet_len must be non-negative")
	}
	if r.SourceTimeout <= 0 || r.ExpertTimeout <= 0 {
		return fmt.Errorf("retrieval timeouts must be positive")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	default:
		return ""
	}
}
