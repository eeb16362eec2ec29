/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose    bool             `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	Config     string           `mapstructure:"config" json:"config" yaml:"config"`
	Todoist    TodoistConfig    `mapstructure:"todoist" json:"todoist" yaml:"todoist"`
	Ranking    RankingConfig    `mapstructure:"ranking" json:"ranking" yaml:"ranking" validate:"required"`
	Classifier ClassifierConfig `mapstructure:"classifier" json:"classifier" yaml:"classifier" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" json:"llm" yaml:"llm"`
	Memory     MemoryConfig     `mapstructure:"memory" json:"memory" yaml:"memory"`
	Server     ServerConfig     `mapstructure:"server" json:"server" yaml:"server"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" json:"telemetry" yaml:"telemetry"`
}

// TodoistConfig holds the task source settings. The token may also come
// from TODOIST_API_TOKEN.
type TodoistConfig struct {
	Token          string  `mapstructure:"token" json:"token" yaml:"token"`
	BaseURL        string  `mapstructure:"baseURL" json:"baseURL" yaml:"baseURL" validate:"omitempty,url"`
	Filter         string  `mapstructure:"filter" json:"filter" yaml:"filter"`
	RateLimit      float64 `mapstructure:"rateLimit" json:"rateLimit" yaml:"rateLimit" validate:"omitempty,gt=0,max=50"`
	TimeoutSeconds int     `mapstructure:"timeoutSeconds" json:"timeoutSeconds" yaml:"timeoutSeconds" validate:"omitempty,min=1,max=120"`
}

// RankingConfig sizes the tournament.
type RankingConfig struct {
	Capacity     int `mapstructure:"capacity" json:"capacity" yaml:"capacity" validate:"min=1,max=200"`
	UrgentBand   int `mapstructure:"urgentBand" json:"urgentBand" yaml:"urgentBand" validate:"min=1,ltefield=Capacity"`
	HistoryLimit int `mapstructure:"historyLimit" json:"historyLimit" yaml:"historyLimit" validate:"min=1,max=10000"`
}

// ClassifierConfig selects the context classifier.
type ClassifierConfig struct {
	Kind        string            `mapstructure:"kind" json:"kind" yaml:"kind" validate:"oneof=llm embedding"`
	Concurrency int               `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency" validate:"min=1,max=64"`
	Margin      float64           `mapstructure:"margin" json:"margin" yaml:"margin" validate:"min=0,max=1"`
	Contexts    map[string]string `mapstructure:"contexts" json:"contexts" yaml:"contexts"`
}

// LLMConfig holds the model provider settings.
type LLMConfig struct {
	Provider       string            `mapstructure:"provider" json:"provider" yaml:"provider" validate:"omitempty,oneof=openai anthropic gemini ollama"`
	Model          string            `mapstructure:"model" json:"model" yaml:"model"`
	EmbeddingModel string            `mapstructure:"embeddingModel" json:"embeddingModel" yaml:"embeddingModel"`
	BaseURL        string            `mapstructure:"baseURL" json:"baseURL" yaml:"baseURL" validate:"omitempty,url"`
	APIKeys        map[string]string `mapstructure:"apiKeys" json:"apiKeys" yaml:"apiKeys"`
}

// MemoryConfig locates the sqlite database.
type MemoryConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path"`
}

// ServerConfig configures `seiton serve`.
type ServerConfig struct {
	Port           int      `mapstructure:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins" json:"allowedOrigins" yaml:"allowedOrigins"`
}

// TelemetryConfig controls anonymous usage events.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	APIKey   string `mapstructure:"apiKey" json:"apiKey" yaml:"apiKey"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint" validate:"omitempty,url"`
}
