/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/josephgoksu/seiton/internal/server"
	"github.com/josephgoksu/seiton/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Todoist proxy endpoints",
	Long: `Serve POST /tasks and POST /task-description-update so browser clients can
create and annotate Todoist tasks without holding the API token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := viper.GetInt("server.port")
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		origins := viper.GetStringSlice("server.allowedOrigins")
		if cmd.Flags().Changed("origin") {
			origins, _ = cmd.Flags().GetStringSlice("origin")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		opts := server.Options{Port: port, AllowedOrigins: origins}
		if a.Todoist != nil {
			opts.Tasks = a.Todoist
		} else {
			fmt.Fprintln(os.Stderr, ui.RenderWarningPanel("No Todoist token", "Requests will fail with a configuration error until todoist.token is set."))
		}
		srv := server.New(opts)

		errChan := make(chan error, 2)
		var wg sync.WaitGroup
		srv.Start(&wg, errChan)

		fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ Proxy listening on http://localhost%s", srv.Addr())))
		fmt.Println(ui.StyleSubtle.Render("Press Ctrl+C to stop"))

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		var runErr error
		select {
		case <-sigChan:
			fmt.Println("\nShutting down...")
		case runErr = <-errChan:
			slog.Error("proxy stopped", "error", runErr)
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("proxy shutdown", "error", err)
		}
		wg.Wait()
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", server.DefaultPort, "port to listen on")
	serveCmd.Flags().StringSlice("origin", nil, "allowed CORS origin (repeatable, overrides server.allowedOrigins)")
}
