// Package cmd implements the parametrix command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Version is the parametrix release version.
const Version = "0.1.0"

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
	format     string

	logger *slog.Logger
}

var validFormats = []string{"text", "json"}

// NewRootCommand builds the parametrix command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "parametrix",
		Short:        "Parametric expression and constraint engine",
		Long:         `parametrix evaluates parametric families: formula-driven parameters ordered by dependency, clamped to their ranges and checked against constraint expressions.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !contains(validFormats, opts.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
			}
			if !contains(validFormats, opts.logFormat) {
				return fmt.Errorf("invalid log format %q: must be one of %v", opts.logFormat, validFormats)
			}
			opts.logger = newLogger(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file path")
	flags.StringVar(&opts.dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (json, text)")
	flags.StringVar(&opts.format, "format", "text", "output format (text, json)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newEvaluateCommand(opts),
		newOrderCommand(opts),
		newConvertCommand(opts),
		newVariantsCommand(opts),
		newAPIKeyCommand(opts),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
