package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenda-app/server/internal/storage/postgres"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := postgres.MigrateUp(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return err
		}
		return printStatus(cmd, cfg.Database.URL, cfg.Database.MigrationsPath)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := postgres.MigrateDown(cfg.Database.URL, cfg.Database.MigrationsPath, migrateSteps); err != nil {
			return err
		}
		return printStatus(cmd, cfg.Database.URL, cfg.Database.MigrationsPath)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printStatus(cmd, cfg.Database.URL, cfg.Database.MigrationsPath)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func printStatus(cmd *cobra.Command, databaseURL, path string) error {
	status, err := postgres.Status(databaseURL, path)
	if err != nil {
		return err
	}
	dirty := ""
	if status.Dirty {
		dirty = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d%s\n", status.Version, dirty)
	return nil
}
