/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/seiton/internal/config"
	"github.com/josephgoksu/seiton/internal/llm"
	"github.com/josephgoksu/seiton/internal/server"
	"github.com/josephgoksu/seiton/types"
	"github.com/spf13/viper"
)

const envPrefix = "SEITON"

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

func validateAppConfig(cfg *types.AppConfig) error {
	return validate.Struct(cfg)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g., SEITON_RANKING_CAPACITY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.SetConfigName(config.ConfigFileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigFileName) // ./.seiton/.seiton.yaml
		if dir, err := config.GetGlobalConfigDir(); err == nil {
			viper.AddConfigPath(dir) // ~/.seiton/.seiton.yaml
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home) // ~/.seiton.yaml
		}
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
		}
	} else if cfgFileFlag != "" && os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
		os.Exit(1)
	} else {
		fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		os.Exit(1)
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

func setDefaults() {
	rank := config.DefaultRankingConfig()
	cls := config.DefaultClassifierConfig()

	viper.SetDefault("todoist.baseURL", "https://api.todoist.com/rest/v2")
	viper.SetDefault("todoist.filter", "")
	viper.SetDefault("todoist.rateLimit", 5)
	viper.SetDefault("todoist.timeoutSeconds", 15)

	viper.SetDefault("ranking.capacity", rank.Capacity)
	viper.SetDefault("ranking.urgentBand", rank.UrgentBand)
	viper.SetDefault("ranking.historyLimit", rank.HistoryLimit)

	viper.SetDefault("classifier.kind", cls.Kind)
	viper.SetDefault("classifier.concurrency", cls.Concurrency)
	viper.SetDefault("classifier.margin", cls.Margin)

	viper.SetDefault("llm.provider", llm.DefaultProvider)

	viper.SetDefault("server.port", server.DefaultPort)
	viper.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})

	viper.SetDefault("telemetry.enabled", true)
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
