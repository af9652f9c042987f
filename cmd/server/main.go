// Package main implements the entry point for the yachaflex API: it serves
// the HTTP API, applies database migrations and scores check-ins offline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The --config flag is shared by every
// subcommand.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "yachaflex-api",
		Short:         "Stress-adaptive learning content API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to a YAML config file (default ./config.yaml or $"+config.ConfigFileEnv+")")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newScoreCmd(&configPath))

	return root
}

// resolveConfigPath prefers the --config flag over the environment.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(config.ConfigFileEnv)
}

// loadAppConfig loads the configuration and sets up structured logging using
// the configured log level.
func loadAppConfig(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(resolveConfigPath(configPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"biometrics_backend", cfg.Biometrics.Backend)
	if cfg.Auth.JWTSecret != "" {
		l.Debug("Auth configuration", "jwt_secret_present", true)
	}

	return cfg, l, nil
}
