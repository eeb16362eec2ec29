/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/seiton/internal/config"
	"github.com/josephgoksu/seiton/internal/telemetry"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *GetConfig()
		cfg.Todoist.Token = maskSecret(config.LoadTodoistConfig().Token)
		cfg.Telemetry.APIKey = maskSecret(cfg.Telemetry.APIKey)
		keys := make(map[string]string, len(cfg.LLM.APIKeys))
		for provider, key := range cfg.LLM.APIKeys {
			keys[provider] = maskSecret(key)
		}
		cfg.LLM.APIKeys = keys

		if isJSON() {
			return printJSON(cfg)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Println(ui.StyleSubtle.Render("# " + used))
		}
		return printYAML(cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a setting to the global config file",
	Example: `  seiton config set todoist.token 0123abcd
  seiton config set ranking.capacity 16
  seiton config set classifier.contexts.context-b "Family and home"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveGlobalValue(args[0], args[1]); err != nil {
			return err
		}
		path, _ := config.GetGlobalConfigFile()
		fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ %s saved to %s", args[0], path)))
		return nil
	},
}

var configTelemetryCmd = &cobra.Command{
	Use:       "telemetry [status|enable|disable]",
	Short:     "Show or change anonymous usage statistics",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"status", "enable", "disable"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return err
		}
		action := "status"
		if len(args) == 1 {
			action = args[0]
		}
		switch action {
		case "enable":
			cfg.Enable()
		case "disable":
			cfg.Disable()
		case "status":
			state := "disabled"
			if cfg.IsEnabled() {
				state = "enabled"
			}
			if isJSON() {
				return printJSON(map[string]any{"enabled": cfg.IsEnabled(), "consentAsked": cfg.ConsentAsked})
			}
			fmt.Printf("Telemetry is %s.\n", state)
			return nil
		default:
			return fmt.Errorf("unknown action %q (status, enable, disable)", action)
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, ui.StyleSuccess.Render("✓ Telemetry "+action+"d"))
		return nil
	},
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configTelemetryCmd)
}
