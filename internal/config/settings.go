package config

import (
	"os"
	"strings"
	"time"

	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/viper"
)

// TodoistConfig configures the Todoist client.
type TodoistConfig struct {
	Token     string
	BaseURL   string
	Filter    string
	RateLimit float64
	Timeout   time.Duration
}

// RankingConfig sizes the tournament.
type RankingConfig struct {
	Capacity     int
	UrgentBand   int
	HistoryLimit int
}

// ClassifierConfig selects and tunes the context classifier.
type ClassifierConfig struct {
	Kind        string
	Concurrency int
	Margin      float64
	// Descriptions maps each context to the text the classifiers compare
	// tasks against.
	Descriptions map[models.Context]string
}

// Classifier kinds.
const (
	ClassifierLLM       = "llm"
	ClassifierEmbedding = "embedding"
)

// Default context descriptions. Users override them per deployment.
const (
	DefaultContextADescription = "Work: professional duties, colleagues, clients, meetings, code, reports and anything done for an employer."
	DefaultContextBDescription = "Personal: home, family, health, errands, finances, hobbies and anything outside of work."
)

// DefaultRankingConfig returns the tournament defaults.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{Capacity: 24, UrgentBand: 4, HistoryLimit: 100}
}

// DefaultClassifierConfig returns the classifier defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Kind:        ClassifierLLM,
		Concurrency: 8,
		Margin:      0.02,
		Descriptions: map[models.Context]string{
			models.ContextA: DefaultContextADescription,
			models.ContextB: DefaultContextBDescription,
		},
	}
}

// LoadTodoistConfig reads the todoist.* keys. The token falls back to the
// TODOIST_API_TOKEN environment variable.
func LoadTodoistConfig() TodoistConfig {
	token := strings.TrimSpace(viper.GetString("todoist.token"))
	if token == "" {
		token = strings.TrimSpace(os.Getenv("TODOIST_API_TOKEN"))
	}
	return TodoistConfig{
		Token:     token,
		BaseURL:   getStringWithDefault("todoist.baseURL", "https://api.todoist.com/rest/v2"),
		Filter:    getStringWithDefault("todoist.filter", ""),
		RateLimit: getFloat64WithDefault("todoist.rateLimit", 5),
		Timeout:   time.Duration(getIntWithDefault("todoist.timeoutSeconds", 15)) * time.Second,
	}
}

// LoadRankingConfig reads the ranking.* keys.
func LoadRankingConfig() RankingConfig {
	d := DefaultRankingConfig()
	return RankingConfig{
		Capacity:     getIntWithDefault("ranking.capacity", d.Capacity),
		UrgentBand:   getIntWithDefault("ranking.urgentBand", d.UrgentBand),
		HistoryLimit: getIntWithDefault("ranking.historyLimit", d.HistoryLimit),
	}
}

// LoadClassifierConfig reads the classifier.* keys.
func LoadClassifierConfig() ClassifierConfig {
	d := DefaultClassifierConfig()
	return ClassifierConfig{
		Kind:        strings.ToLower(getStringWithDefault("classifier.kind", d.Kind)),
		Concurrency: getIntWithDefault("classifier.concurrency", d.Concurrency),
		Margin:      getFloat64WithDefault("classifier.margin", d.Margin),
		Descriptions: map[models.Context]string{
			models.ContextA: getStringWithDefault("classifier.contexts.context-a", d.Descriptions[models.ContextA]),
			models.ContextB: getStringWithDefault("classifier.contexts.context-b", d.Descriptions[models.ContextB]),
		},
	}
}

func getFloat64WithDefault(key string, defaultVal float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return defaultVal
}

func getIntWithDefault(key string, defaultVal int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return defaultVal
}

func getStringWithDefault(key string, defaultVal string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultVal
}
