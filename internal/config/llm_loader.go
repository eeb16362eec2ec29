package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/seiton/internal/llm"
	"github.com/spf13/viper"
)

// apiKeyEnv lists the environment variables checked for each provider's
// key, first match wins. Ollama runs locally and needs none.
var apiKeyEnv = map[llm.Provider][]string{
	llm.ProviderOpenAI:    {"OPENAI_API_KEY"},
	llm.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	llm.ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// LoadLLMConfig builds the classifier's model settings from the llm.* keys,
// filling provider defaults for anything left blank.
func LoadLLMConfig() (llm.Config, error) {
	provider, err := llm.ValidateProvider(orDefault(viper.GetString("llm.provider"), llm.DefaultProvider))
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	cfg := llm.Config{
		Provider:       provider,
		Model:          orDefault(viper.GetString("llm.model"), llm.DefaultModelForProvider(string(provider))),
		EmbeddingModel: orDefault(viper.GetString("llm.embeddingModel"), llm.DefaultEmbeddingModelForProvider(string(provider))),
		BaseURL:        viper.GetString("llm.baseURL"),
		APIKey:         ResolveAPIKey(provider),
	}
	if cfg.BaseURL == "" && provider == llm.ProviderOllama {
		cfg.BaseURL = llm.DefaultOllamaURL
	}
	return cfg, nil
}

// ResolveAPIKey prefers llm.apiKeys.<provider> and falls back to the
// provider's environment variables.
func ResolveAPIKey(provider llm.Provider) string {
	if key := strings.TrimSpace(viper.GetString("llm.apiKeys." + string(provider))); key != "" {
		return key
	}
	for _, name := range apiKeyEnv[provider] {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
