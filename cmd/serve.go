package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yujin9907/cloud-naitive/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Pending migrations are applied first unless
database.auto_migrate is false.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	return bootstrap.Start(cmd.Context(), configPath(), Version)
}
