package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"scribecast/internal/assistant"
	"scribecast/internal/chatlog"
	"scribecast/internal/compose"
	"scribecast/internal/config"
	"scribecast/internal/db"
	"scribecast/internal/embeddings"
	"scribecast/internal/llm"
	"scribecast/internal/retrieval"
	"scribecast/internal/vectordb"
)

const (
	wikiSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	wikiSearchURL  = "https://en.wikipedia.org/w/api.php"
)

// buildLogger creates the process-wide logger. Verbose mode switches to the
// human-readable development encoder at debug level.
func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `scribecast init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, ""), nil
	default:
		// DeepSeek has no embeddings API; OpenAI serves both.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	}
}

// openVectorStore creates the chromem store and loads any persisted index
// from the data directory. A missing index is not fatal; the corpus source
// simply contributes nothing until `scribecast index` runs.
func openVectorStore(cfg *config.Config, log *zap.Logger) (vectordb.VectorStore, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	vectorDir := vectorDBDir(cfg)
	if err := store.Load(context.Background(), vectorDir); err != nil {
		log.Warn("could not load corpus index, similarity search will be empty",
			zap.String("dir", vectorDir),
			zap.Error(err))
	}
	return store, nil
}

func vectorDBDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

func chatDBPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "scribecast.db")
}

// app bundles everything a chat-serving command needs.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	engine   *assistant.Engine
	turns    *chatlog.Store
	database *db.DB
}

// buildApp wires the full assistant: retrieval sources, aggregator,
// composer, providers, and the session log.
func buildApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating completion provider: %w", err)
	}

	expertProviderType := cfg.ExpertProvider
	if expertProviderType == "" {
		expertProviderType = cfg.Provider
	}
	expertProvider, err := llm.NewProvider(string(expertProviderType), cfg.ExpertModel)
	if err != nil {
		return nil, fmt.Errorf("creating expert provider: %w", err)
	}

	store, err := openVectorStore(cfg, log)
	if err != nil {
		return nil, err
	}

	aggregator, err := buildAggregator(cfg, expertProvider, store, log)
	if err != nil {
		return nil, err
	}

	persona, err := config.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return nil, err
	}
	if persona == "" {
		log.Warn("persona file missing or empty, prompts will carry no identity preamble",
			zap.String("path", cfg.PersonaFile))
	}

	database, err := db.Open(chatDBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	turns := chatlog.NewStore(database, log)

	engine, err := assistant.NewEngine(assistant.Deps{
		Aggregator: aggregator,
		Composer:   compose.New(cfg.PromptBudget),
		Provider:   provider,
		Model:      cfg.Model,
		Persona:    persona,
		Turns:      turns,
		Logger:     log,
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		turns:    turns,
		database: database,
	}, nil
}

// buildAggregator assembles all four retrieval sources under the configured
// budgets.
func buildAggregator(cfg *config.Config, expertProvider llm.Provider, store vectordb.VectorStore, log *zap.Logger) (*retrieval.Aggregator, error) {
	r := cfg.Retrieval
	sources := []retrieval.Source{
		retrieval.NewExpert(expertProvider, cfg.ExpertModel),
		retrieval.NewEncyclopedia(wikiSummaryURL, wikiSearchURL, r.WikiSentences),
		retrieval.NewWebSearch(""),
		retrieval.NewCorpus(store),
	}
	budgets := map[retrieval.Origin]retrieval.Budget{
		retrieval.OriginExpert:       {Limit: r.ExpertLimit, Timeout: r.ExpertTimeout},
		retrieval.OriginEncyclopedia: {Limit: r.WikiLimit, Timeout: r.SourceTimeout},
		retrieval.OriginWeb:          {Limit: r.WebLimit, Timeout: r.SourceTimeout},
		retrieval.OriginDocument:     {Limit: r.CorpusLimit, Timeout: r.SourceTimeout},
	}
	return retrieval.NewAggregator(sources, retrieval.Config{
		Budgets:       budgets,
		MinSnippetLen: r.MinSnippetLen,
		MaxSnippets:   r.MaxSnippets,
	}, log)
}

// Close drains the session log and closes the database.
func (a *app) Close() {
	a.turns.Close()
	a.database.Close()
}
