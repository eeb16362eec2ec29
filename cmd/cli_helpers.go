/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/josephgoksu/seiton/internal/app"
	"github.com/josephgoksu/seiton/internal/telemetry"
	"github.com/josephgoksu/seiton/models"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}

// openApp builds the shared app context. Callers must Close it.
func openApp() (*app.Context, error) {
	a, err := app.NewContext()
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// modesFromFlag returns the single mode named by value, or both modes when
// value is empty.
func modesFromFlag(value string) ([]models.Context, error) {
	if value == "" {
		return models.Modes, nil
	}
	mode, err := models.ParseMode(value)
	if err != nil {
		return nil, err
	}
	return []models.Context{mode}, nil
}

func confirmOrAbort(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func newTelemetryClient() telemetry.Client {
	if !viper.GetBool("telemetry.enabled") {
		return telemetry.NewNoopClient()
	}
	cfg, err := telemetry.Load()
	if err != nil {
		slog.Debug("telemetry config unreadable", "error", err)
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   viper.GetString("telemetry.apiKey"),
		Endpoint: viper.GetString("telemetry.endpoint"),
		Version:  version,
		Config:   cfg,
	})
	if err != nil {
		slog.Debug("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	return client
}

// maybePromptTelemetryConsent asks once, on interactive terminals only.
func maybePromptTelemetryConsent() {
	if !viper.GetBool("telemetry.enabled") || viper.GetString("telemetry.apiKey") == "" {
		return
	}
	cfg, err := telemetry.Load()
	if err != nil || !cfg.NeedsConsent() {
		return
	}
	if _, err := telemetry.PromptForConsent(cfg, os.Stdin, os.Stdout); err != nil {
		slog.Debug("telemetry consent not saved", "error", err)
		return
	}
	telemetryClient = newTelemetryClient()
}
