package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yujin9907/cloud-naitive/internal/database"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrator, err := newMigrator()
			if err != nil {
				return err
			}
			if downErr := migrator.Down(steps); downErr != nil {
				return fmt.Errorf("migrate down: %w", downErr)
			}
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				migrator, err := newMigrator()
				if err != nil {
					return err
				}
				if upErr := migrator.Up(); upErr != nil {
					return fmt.Errorf("migrate up: %w", upErr)
				}
				return nil
			},
		},
		downCmd,
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				migrator, err := newMigrator()
				if err != nil {
					return err
				}
				version, dirty, versionErr := migrator.Version()
				if versionErr != nil {
					return fmt.Errorf("migrate version: %w", versionErr)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			},
		},
	)

	return migrateCmd
}

func newMigrator() (*database.Migrator, error) {
	cfg, log, err := loadCommandDeps()
	if err != nil {
		return nil, err
	}
	return database.NewMigrator(cfg.Database, log), nil
}
