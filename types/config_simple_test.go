package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func validConfig() AppConfig {
	return AppConfig{
		Ranking:    RankingConfig{Capacity: 24, UrgentBand: 4, HistoryLimit: 100},
		Classifier: ClassifierConfig{Kind: "llm", Concurrency: 8, Margin: 0.02},
		Server:     ServerConfig{Port: 8787},
	}
}

func TestAppConfig_Valid(t *testing.T) {
	cfg := validConfig()
	if err := validator.New().Struct(&cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero capacity", func(c *AppConfig) { c.Ranking.Capacity = 0 }},
		{"band above capacity", func(c *AppConfig) { c.Ranking.UrgentBand = 30 }},
		{"unknown classifier", func(c *AppConfig) { c.Classifier.Kind = "regex" }},
		{"unknown provider", func(c *AppConfig) { c.LLM.Provider = "bedrock" }},
		{"bad port", func(c *AppConfig) { c.Server.Port = 70000 }},
		{"bad base url", func(c *AppConfig) { c.Todoist.BaseURL = "not a url" }},
		{"margin above one", func(c *AppConfig) { c.Classifier.Margin = 1.5 }},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := v.Struct(&cfg); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}
