package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree with args and returns stdout, stderr and
// the command error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"serve", "migrate", "evaluate", "order", "convert", "variants", "apikey"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		})
	}

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "status"}, {"apikey", "create"}, {"apikey", "revoke"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[1], cmd.Name())
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	root := NewRootCommand()

	for flag, def := range map[string]string{
		"config":     "",
		"db-url":     "",
		"log-level":  "warn",
		"log-format": "text",
		"format":     "text",
	} {
		f := root.PersistentFlags().Lookup(flag)
		require.NotNil(t, f, "flag %s", flag)
		assert.Equal(t, def, f.DefValue, "flag %s", flag)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	root := NewRootCommand()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	for _, flag := range []string{"host", "port", "request-timeout", "max-batch-size", "data-dir", "strict", "max-parameters"} {
		assert.NotNil(t, serve.Flags().Lookup(flag), "flag %s", flag)
	}
	assert.Equal(t, "50061", serve.Flags().Lookup("port").DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := run(t, "--format", "yaml", "convert", "1", "in", "mm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)

	_, _, err = run(t, "--log-format", "xml", "convert", "1", "in", "mm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log format "xml"`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger("info", "json", &buf)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	buf.Reset()
	logger = newLogger("bogus", "text", &buf)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
	logger.Warn("careful")
	assert.True(t, strings.Contains(buf.String(), "msg=careful"))
}
