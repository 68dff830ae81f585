package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result to
// .scribecast.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to scribecast! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Completion provider.
	providerPrompt := promptui.Select{
		Label: "Select completion provider",
		Items: []string{"ollama", "openai", "deepseek"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model name.
	modelPrompt := promptui.Prompt{
		Label:   "Completion model",
		Default: defaultModelFor(cfg.Provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	cfg.Model = model

	// 3. Expert model. The expert source works best with a reasoning model;
	// it shares the main provider unless overridden in the config file.
	expertPrompt := promptui.Prompt{
		Label:   "Expert model (reasoning)",
		Default: cfg.ExpertModel,
	}
	expertModel, err := expertPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("expert model: %w", err)
	}
	cfg.ExpertProvider = cfg.Provider
	cfg.ExpertModel = expertModel

	// 4. Persona file.
	personaPrompt := promptui.Prompt{
		Label:   "Channel persona file",
		Default: cfg.PersonaFile,
	}
	personaFile, err := personaPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("persona file: %w", err)
	}
	cfg.PersonaFile = personaFile

	// 5. Corpus directory.
	corpusPrompt := promptui.Prompt{
		Label:   "Corpus directory to index",
		Default: cfg.CorpusDir,
	}
	corpusDir, err := corpusPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("corpus dir: %w", err)
	}
	cfg.CorpusDir = corpusDir

	// 6. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: strings.Join(cfg.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	cfg.Include = splitAndTrim(includeStr)

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running scribecast serve.\n", envVar)
	}

	configPath := ".scribecast.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

func defaultModelFor(p ProviderType) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderDeepSeek:
		return "deepseek-chat"
	default:
		return "mistral"
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
