// Package telemetry sends opt-in, anonymous usage events about ranking
// sessions. Nothing about task content ever leaves the machine.
package telemetry

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/seiton/internal/config"
	"github.com/spf13/afero"
)

// ConfigFileName is the consent file kept next to the main config.
const ConfigFileName = "telemetry.json"

// Fs is where the consent file lives. Tests swap in afero.NewMemMapFs.
var Fs afero.Fs = afero.NewOsFs()

// Dir returns the directory holding the consent file.
var Dir = config.GetGlobalConfigDir

// Config is the stored consent state.
type Config struct {
	Enabled      bool      `json:"enabled"`
	ConsentAsked bool      `json:"consent_asked"`
	AnsweredAt   time.Time `json:"answered_at,omitempty"`
	AnonymousID  string    `json:"anonymous_id"`
}

// GetConfigPath returns the full path of the consent file.
func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the consent file. A missing file yields an unanswered,
// disabled config with a fresh anonymous id.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := afero.ReadFile(Fs, path)
	if err != nil {
		if exists, _ := afero.Exists(Fs, path); exists {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the consent file, readable by the owner only.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal consent: %w", err)
	}
	if err := afero.WriteFile(Fs, path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Enable records a yes.
func (c *Config) Enable() { c.answer(true) }

// Disable records a no.
func (c *Config) Disable() { c.answer(false) }

func (c *Config) answer(enabled bool) {
	c.Enabled = enabled
	c.ConsentAsked = true
	c.AnsweredAt = time.Now().UTC()
}

func (c *Config) NeedsConsent() bool { return !c.ConsentAsked }

func (c *Config) IsEnabled() bool { return c.Enabled }
