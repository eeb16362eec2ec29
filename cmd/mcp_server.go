/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/josephgoksu/seiton/internal/app"
	"github.com/josephgoksu/seiton/internal/logger"
	"github.com/josephgoksu/seiton/models"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RankingStatusParams is the input of the ranking_status tool.
type RankingStatusParams struct {
	Mode string `json:"mode,omitempty"`
}

// ComparisonHintParams is the input of the comparison_hint tool.
type ComparisonHintParams struct {
	Mode         string `json:"mode"`
	ChallengerID string `json:"challenger_id"`
	OpponentID   string `json:"opponent_id"`
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose ranking progress to AI tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout. The tools are
read-only: ranking_status reports saved progress and comparison_hint returns
the last recorded outcome between two tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

// mcpMarkdownResponse wraps markdown text in an MCP tool result.
func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpErrorResponse reports err inside the result so the client can see it.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "## Error\n\n" + err.Error()}},
		IsError: true,
	}, nil
}

func runMCPServer(ctx context.Context) error {
	// stdout carries the protocol.
	logger.Discard()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	impl := &mcpsdk.Implementation{Name: "seiton", Version: version}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			if viper.GetBool("verbose") {
				fmt.Fprintf(os.Stderr, "[DEBUG] MCP client initialized\n")
			}
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "ranking_status",
		Description: "Show saved SEITON ranking progress. Use {\"mode\":\"context-a\"} or {\"mode\":\"context-b\"}; omit mode for both.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[RankingStatusParams]) (*mcpsdk.CallToolResultFor[any], error) {
		modes, err := modesFromFlag(strings.TrimSpace(params.Arguments.Mode))
		if err != nil {
			return mcpErrorResponse(err)
		}
		var b strings.Builder
		for _, m := range modes {
			p, err := app.LoadProgress(ctx, a.Store, m)
			if err != nil {
				return mcpErrorResponse(fmt.Errorf("load %s progress: %w", m, err))
			}
			b.WriteString(formatProgressMarkdown(p, a.Ranking.Capacity))
		}
		return mcpMarkdownResponse(b.String())
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "comparison_hint",
		Description: "Return the last recorded outcome between two tasks in a mode, oriented to the challenger.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[ComparisonHintParams]) (*mcpsdk.CallToolResultFor[any], error) {
		args := params.Arguments
		mode, err := models.ParseMode(args.Mode)
		if err != nil {
			return mcpErrorResponse(err)
		}
		if args.ChallengerID == "" || args.OpponentID == "" {
			return mcpErrorResponse(fmt.Errorf("challenger_id and opponent_id are required"))
		}
		hint, ok, err := app.LookupHint(ctx, a.Store, mode, args.ChallengerID, args.OpponentID)
		if err != nil {
			return mcpErrorResponse(err)
		}
		if !ok {
			return mcpMarkdownResponse(fmt.Sprintf("No recorded comparison between `%s` and `%s`.", args.ChallengerID, args.OpponentID))
		}
		return mcpMarkdownResponse(fmt.Sprintf("Last comparison (%s, %s): **%s** won.",
			hint.At.UTC().Format(time.RFC3339), hint.Action, hint.Winner))
	})

	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func formatProgressMarkdown(p app.Progress, capacity int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", p.Mode)
	switch {
	case p.InProgress:
		fmt.Fprintf(&b, "In progress: %d/%d ranked, %d queued, %d overflow, %d comparisons.\n",
			len(p.Ranked), capacity, p.Queued, p.Overflow, p.Comparisons)
		if p.Challenger != nil {
			fmt.Fprintf(&b, "Next challenger: %s (`%s`)\n", p.Challenger.Content, p.Challenger.ID)
		}
	case p.HasResult:
		fmt.Fprintf(&b, "Completed: %d ranked, %d overflow.\n", len(p.Ranked), p.Overflow)
	default:
		b.WriteString("No ranking yet.\n\n")
		return b.String()
	}
	if len(p.Ranked) > 0 {
		b.WriteString("\n")
		for i, t := range p.Ranked {
			fmt.Fprintf(&b, "%d. [%s] %s (`%s`)\n", i+1, t.Priority.Label(), t.Content, t.ID)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
