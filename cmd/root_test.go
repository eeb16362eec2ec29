package cmd

import (
	"bytes"
	"testing"

	"github.com/josephgoksu/seiton/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"rank", "reset", "status", "history", "result", "classify", "serve", "mcp", "config", "version"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "json"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", rootCmd.PersistentFlags().Lookup("config").Shorthand)
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Equal(t, "seiton version "+GetVersion()+"\n", out.String())
}

func TestRankCommand_RejectsUnknownMode(t *testing.T) {
	err := rankCmd.RunE(rankCmd, []string{"context-c"})
	require.Error(t, err)
}

func TestCommandFlags(t *testing.T) {
	tests := map[string][]string{
		"reset":    {"mode", "all", "cache", "yes"},
		"status":   {"mode"},
		"history":  {"mode", "limit"},
		"result":   {"mode", "format"},
		"classify": {"filter", "purge"},
		"serve":    {"port", "origin"},
	}
	for name, flags := range tests {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		for _, f := range flags {
			assert.NotNil(t, c.Flags().Lookup(f), "%s --%s", name, f)
		}
	}
}

func TestModesFromFlag(t *testing.T) {
	modes, err := modesFromFlag("")
	require.NoError(t, err)
	assert.Equal(t, models.Modes, modes)

	modes, err = modesFromFlag("context-b")
	require.NoError(t, err)
	assert.Equal(t, []models.Context{models.ContextB}, modes)

	_, err = modesFromFlag("both")
	assert.Error(t, err)
}

func TestResetPrompt(t *testing.T) {
	assert.Equal(t, "Reset Context A progress? [y/N]: ", resetPrompt([]models.Context{models.ContextA}, false))
	assert.Equal(t, "Reset the classification cache? [y/N]: ", resetPrompt(nil, true))
	assert.Equal(t, "Reset Context A and Context B progress and the classification cache? [y/N]: ",
		resetPrompt(models.Modes, true))
}
