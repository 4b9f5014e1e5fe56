// Package commands implements the yatra command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"yatra/internal/config"
	"yatra/internal/logging"
	"yatra/internal/service"
)

var (
	cfgPath  string
	logLevel string
)

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yatra",
		Short: "Plan trips from travel guides with retrieval-augmented generation",
		Long: `Yatra indexes travel guide pages once, then plans tours for a traveller
profile and answers questions about destinations from the same index.

Examples:
  yatra ingest
  yatra plan --budget "₹50,000" --interests "beaches, trekking" --duration "7 days" --style Adventure --city Mumbai
  yatra ask "Which hill stations are good in winter?"
  yatra chat`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML or TOML config (default ./config.yaml or ~/.config/yatra/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.AppConfig) (*log.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// openApp loads config, builds the logger and the application.
func openApp(cmd *cobra.Command, opts service.Options) (*service.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return service.NewApp(cmd.Context(), cfg, logger, opts)
}
