// Package app wires configuration, storage and external clients into the
// services the CLI and MCP handlers call. CLI and MCP stay thin adapters.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/seiton/internal/classify"
	"github.com/josephgoksu/seiton/internal/config"
	"github.com/josephgoksu/seiton/internal/llm"
	"github.com/josephgoksu/seiton/internal/memory"
	"github.com/josephgoksu/seiton/internal/policy"
	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/internal/todoist"
	"github.com/josephgoksu/seiton/models"
)

// Context holds shared dependencies for all app services.
type Context struct {
	Store   *memory.SQLiteStore
	Todoist *todoist.Client

	Ranking    config.RankingConfig
	Classifier config.ClassifierConfig
	Filter     string
	LLM        llm.Config
}

// NewContext opens the store and reads the configuration. The Todoist
// client is optional here: read-only commands work without a token.
func NewContext() (*Context, error) {
	store, err := memory.NewSQLiteStore(config.GetMemoryBasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	tcfg := config.LoadTodoistConfig()
	client, err := todoist.New(todoist.Options{
		Token:     tcfg.Token,
		BaseURL:   tcfg.BaseURL,
		RateLimit: tcfg.RateLimit,
		Timeout:   tcfg.Timeout,
	})
	if err != nil && !errors.Is(err, todoist.ErrMissingToken) {
		_ = store.Close()
		return nil, err
	}

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		// Non-fatal: classification then reports every task as undefined.
		slog.Warn("llm config invalid", "error", err)
		llmCfg = llm.Config{}
	}

	return &Context{
		Store:      store,
		Todoist:    client,
		Ranking:    config.LoadRankingConfig(),
		Classifier: config.LoadClassifierConfig(),
		Filter:     tcfg.Filter,
		LLM:        llmCfg,
	}, nil
}

// Close releases the store.
func (c *Context) Close() error {
	return c.Store.Close()
}

// RequireTodoist returns the client or todoist.ErrMissingToken.
func (c *Context) RequireTodoist() (*todoist.Client, error) {
	if c.Todoist == nil {
		return nil, todoist.ErrMissingToken
	}
	return c.Todoist, nil
}

// NewClassifier builds the configured classifier behind the sqlite cache.
func (c *Context) NewClassifier(ctx context.Context) (*classify.CachedClassifier, error) {
	inner, err := NewClassifier(ctx, c.Classifier, c.LLM)
	if err != nil {
		return nil, err
	}
	return classify.NewCachedClassifier(inner, c.Store), nil
}

// NewClassifier builds the classifier selected by cfg.Kind.
func NewClassifier(ctx context.Context, cfg config.ClassifierConfig, llmCfg llm.Config) (classify.Classifier, error) {
	switch cfg.Kind {
	case config.ClassifierEmbedding:
		embedder, err := llm.NewEmbeddingModel(ctx, llmCfg)
		if err != nil {
			return nil, fmt.Errorf("create embedder: %w", err)
		}
		return classify.NewEmbeddingClassifier(embedder, cfg.Descriptions, cfg.Margin), nil
	case config.ClassifierLLM, "":
		chat, err := llm.NewChatModel(ctx, llmCfg)
		if err != nil {
			return nil, fmt.Errorf("create model: %w", err)
		}
		return classify.NewLLMClassifier(chat, cfg.Descriptions), nil
	default:
		return nil, fmt.Errorf("unknown classifier kind %q (supported: llm, embedding)", cfg.Kind)
	}
}

// NewEngine assembles a ranking engine for mode backed by Todoist, the
// configured classifier and the eligibility policies.
func (c *Context) NewEngine(ctx context.Context, mode models.Context) (*ranking.Engine, error) {
	client, err := c.RequireTodoist()
	if err != nil {
		return nil, err
	}
	classifier, err := c.NewClassifier(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := policy.NewEngine(ctx, policy.EngineConfig{PoliciesDir: config.GetPoliciesPath()})
	if err != nil {
		return nil, err
	}

	return ranking.NewEngine(ranking.Config{
		Mode:         mode,
		Capacity:     c.Ranking.Capacity,
		UrgentBand:   c.Ranking.UrgentBand,
		HistoryLimit: c.Ranking.HistoryLimit,
		Source:       client,
		Store:        c.Store,
		Loader: &SessionLoader{
			Tasks:       client,
			Classifier:  classifier,
			Policy:      policies,
			Filter:      c.Filter,
			Concurrency: c.Classifier.Concurrency,
		},
	})
}
