// Package cli implements the tokyo-links command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vrsandeep/tokyo-links/internal/config"
	"github.com/vrsandeep/tokyo-links/internal/core"
	"github.com/vrsandeep/tokyo-links/internal/logger"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type globalOptions struct {
	cfgFile  string
	logLevel string
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	// Variables from .env are only defaults; the real environment wins.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "tokyo-links",
		Short:         "Collect the best download link for every episode of a series",
		Long:          `tokyo-links reads a series catalog page, visits every selected item page and writes one download link per item.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./config.yml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newFetchCommand(opts))
	root.AddCommand(newHistoryCommand(opts))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tokyo-links version %s\n", Version)
		},
	})
	return root
}

// loadConfig reads the configuration and applies global flag overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*core.App, error) {
	log, err := logger.New(logger.Config{Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}
	return core.New(cfg, log)
}
