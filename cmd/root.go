// Package cmd implements the board-api command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/yujin9907/cloud-naitive/infrastructure/config"
	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
	"github.com/yujin9907/cloud-naitive/internal/bootstrap"
	"github.com/yujin9907/cloud-naitive/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// cfgFile holds the --config flag.
var cfgFile string

// NewRootCommand builds the command tree. Running it without a subcommand serves HTTP.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "board-api",
		Short:         "Posts CRUD service",
		Long:          `board-api serves create, read, update, delete and search over posts stored in PostgreSQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is $CONFIG_PATH or ./"+config.DefaultPath+")",
	)

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newPostsCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return infraconfig.GetConfigPath(config.DefaultPath)
}

// loadCommandDeps loads config and a logger for one-shot commands.
func loadCommandDeps() (*config.Config, infralogger.Logger, error) {
	cfg, err := bootstrap.LoadConfig(configPath())
	if err != nil {
		return nil, nil, err
	}

	log, err := bootstrap.CreateLogger(cfg, Version)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}
