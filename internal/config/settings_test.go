package config

import (
	"testing"
	"time"

	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadTodoistConfig(t *testing.T) {
	resetViperForTest(t)
	t.Setenv("TODOIST_API_TOKEN", "env-token")

	cfg := LoadTodoistConfig()
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "https://api.todoist.com/rest/v2", cfg.BaseURL)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 15*time.Second, cfg.Timeout)

	viper.Set("todoist.token", "cfg-token")
	viper.Set("todoist.timeoutSeconds", 3)
	viper.Set("todoist.filter", "today")
	cfg = LoadTodoistConfig()
	assert.Equal(t, "cfg-token", cfg.Token)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "today", cfg.Filter)
}

func TestLoadRankingConfig(t *testing.T) {
	resetViperForTest(t)
	assert.Equal(t, DefaultRankingConfig(), LoadRankingConfig())

	viper.Set("ranking.capacity", 10)
	viper.Set("ranking.urgentBand", 2)
	cfg := LoadRankingConfig()
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 2, cfg.UrgentBand)
	assert.Equal(t, 100, cfg.HistoryLimit)
}

func TestLoadClassifierConfig(t *testing.T) {
	resetViperForTest(t)
	viper.Set("classifier.kind", "Embedding")
	viper.Set("classifier.contexts.context-b", "Side projects")

	cfg := LoadClassifierConfig()
	assert.Equal(t, ClassifierEmbedding, cfg.Kind)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 0.02, cfg.Margin)
	assert.Equal(t, DefaultContextADescription, cfg.Descriptions[models.ContextA])
	assert.Equal(t, "Side projects", cfg.Descriptions[models.ContextB])
}
