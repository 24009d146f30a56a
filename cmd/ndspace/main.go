// Package main provides the ndspace binary.
//
// Usage:
//
//	ndspace serve --addr :8080        # HTTP tool server
//	ndspace run scene.yaml            # evaluate a scene file
//	ndspace version
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/njchilds90/ndspace/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ndspace"
)

func main() {
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

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Parametric subspace hierarchies",
		Long: `ndspace builds hierarchies of parametric subspaces, lifts them into
ancestor coordinates and decides containment between them.

Scenes are described in YAML and can be evaluated from the command line or
served to agents over HTTP as JSON tool calls.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(serveCmd(g), runCmd(g))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// load resolves the configuration (defaults, file, flags) and installs the
// default logger.
func (g *globals) load() (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	if g.configPath != "" {
		fileCfg, err := config.LoadFromFile(g.configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = fileCfg
	}
	cfg.Merge(&config.Config{Log: config.LogConfig{Level: g.logLevel, Format: g.logFormat}})
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
