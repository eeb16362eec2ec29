/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/josephgoksu/seiton/internal/config"
	"github.com/josephgoksu/seiton/internal/logger"
	"github.com/josephgoksu/seiton/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging and technical error output.
	verbose bool
	// version is the application version, overridden at build time.
	version = "0.1.0"

	telemetryClient telemetry.Client = telemetry.NewNoopClient()
	logCloser       io.Closer
	commandStart    time.Time
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seiton",
	Short: "SEITON - put your Todoist tasks in order, one comparison at a time",
	Long: `SEITON ranks your open Todoist tasks by asking you to compare them two at a time.

Tasks are split into two contexts (for example work and personal) by a
language model, then each context is ranked in its own tournament. The top of
the ranking becomes P1, the rest of the ranked list P2, and anything that did
not fit P3. Priorities are written back to Todoist after every choice, and
progress is saved so you can stop and resume at any time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		commandStart = time.Now()
		logger.SetCommand(cmd.CommandPath())
		logger.SetVersion(version)
		if dir, err := config.GetGlobalConfigDir(); err == nil {
			logger.SetBasePath(dir)
		}

		closer, err := logger.Setup(config.GetLogPath(), viper.GetBool("verbose"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠  logging disabled: %v\n", err)
		} else {
			logCloser = closer
		}

		telemetryClient = newTelemetryClient()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetryClient.Track(telemetry.EventCommandExecuted, telemetry.Properties{
			"command":     cmd.Name(),
			"duration_ms": time.Since(commandStart).Milliseconds(),
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = telemetryClient.Close()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		PrintError(userMessage(err), err)
		os.Exit(1)
	}
}

// GetVersion returns the CLI version string.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.seiton/.seiton.yaml, ~/.seiton/.seiton.yaml or ~/.seiton.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
