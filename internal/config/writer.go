package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// settableKeys lists the keys `seiton config set` accepts. Nested maps such
// as llm.apiKeys.<provider> are matched by prefix.
var settableKeys = []string{
	"todoist.token", "todoist.baseURL", "todoist.filter", "todoist.rateLimit", "todoist.timeoutSeconds",
	"ranking.capacity", "ranking.urgentBand", "ranking.historyLimit",
	"classifier.kind", "classifier.concurrency", "classifier.margin",
	"classifier.contexts.context-a", "classifier.contexts.context-b",
	"llm.provider", "llm.model", "llm.embeddingModel", "llm.baseURL", "llm.apiKeys.",
	"memory.path", "server.port", "server.allowedOrigins",
	"telemetry.enabled", "telemetry.apiKey", "telemetry.endpoint",
}

// IsSettableKey reports whether key may be written with SaveGlobalValue.
func IsSettableKey(key string) bool {
	for _, k := range settableKeys {
		if strings.HasSuffix(k, ".") {
			if strings.HasPrefix(key, k) && len(key) > len(k) {
				return true
			}
			continue
		}
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// SaveGlobalValue writes one key to the global config file, preserving the
// other settings in it.
func SaveGlobalValue(key, value string) error {
	if !IsSettableKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	path, err := GetGlobalConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if key == "server.allowedOrigins" {
		v.Set(key, splitList(value))
	} else {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
