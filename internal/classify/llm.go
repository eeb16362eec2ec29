package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/josephgoksu/seiton/internal/config"
	"github.com/josephgoksu/seiton/models"
)

// LLMClassifier asks a chat model which context a task belongs to.
type LLMClassifier struct {
	chat         model.BaseChatModel
	systemPrompt string
}

// NewLLMClassifier builds a classifier around chat. descriptions supplies
// the text for each context; missing entries fall back to the defaults.
func NewLLMClassifier(chat model.BaseChatModel, descriptions map[models.Context]string) *LLMClassifier {
	a := descriptions[models.ContextA]
	if a == "" {
		a = config.DefaultContextADescription
	}
	b := descriptions[models.ContextB]
	if b == "" {
		b = config.DefaultContextBDescription
	}
	return &LLMClassifier{
		chat:         chat,
		systemPrompt: fmt.Sprintf(config.SystemPromptClassifier, a, b),
	}
}

// Name implements Named.
func (c *LLMClassifier) Name() string { return "llm" }

// Classify implements Classifier.
func (c *LLMClassifier) Classify(ctx context.Context, content, description string) models.Context {
	messages := []*schema.Message{
		schema.SystemMessage(c.systemPrompt),
		schema.UserMessage(fmt.Sprintf(config.UserPromptClassifier, content, description)),
	}

	resp, err := c.chat.Generate(ctx, messages)
	if err != nil {
		slog.Debug("classify: llm generate failed", "error", err)
		return models.ContextUndefined
	}
	if resp == nil {
		return models.ContextUndefined
	}
	return parseLabel(resp.Content)
}

// parseLabel accepts {"context": "..."} optionally wrapped in a markdown
// fence, or a bare label.
func parseLabel(response string) models.Context {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		var out struct {
			Context string `json:"context"`
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err == nil {
			return models.ParseContext(out.Context)
		}
	}

	return models.ParseContext(strings.Trim(cleaned, "\"'. \n"))
}
