// Package main provides the clscorgi binary entry point.
// clscorgi looks up and validates CLSCor controlled vocabularies.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clscor/clscorgi/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "clscorgi"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "CLSCor controlled vocabulary lookup",
		Long: `clscorgi loads the CLSCor SKOS vocabularies and answers lookups
against them, so RDF generation can annotate triples with standard type URIs.

Vocabularies come from the bundled set, local Turtle/N-Triples/YAML files,
or documents pulled from the CLSCor GitLab into a local store.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML); default searches clscorgi.yaml")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		resolveCmd(&flags),
		schemeCmd(&flags),
		lookupCmd(&flags),
		validateCmd(&flags),
		exportCmd(&flags),
		pullCmd(&flags),
		watchCmd(&flags),
		initCmd(&flags),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// newLogger builds the text logger used by every command and installs it
// as the default.
func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads an explicit config file, or the layered user and project
// configs when none is given.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if configPath != "" {
		cfg, err := loader.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
