package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/groszeck/taxena-netlify/internal/store/postgres"
)

// newMigrateCommand only needs DATABASE_URL, so it skips the full config.
func newMigrateCommand() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if dsn != "" {
				return nil
			}
			_ = godotenv.Load()
			dsn = os.Getenv("DATABASE_URL")
			if dsn == "" {
				return errors.New("DATABASE_URL is required (or pass --database-url)")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dsn, "database-url", "", "postgres connection string")

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return postgres.MigrateDown(cmd.Context(), dsn, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return postgres.MigrateUp(cmd.Context(), dsn)
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				version, err := postgres.MigrationVersion(cmd.Context(), dsn)
				if err != nil {
					return err
				}
				cmd.Printf("schema version %d\n", version)
				return nil
			},
		},
	)
	return cmd
}
