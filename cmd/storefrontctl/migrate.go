package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcorp/storefront/pkg/db"
	"github.com/lcorp/storefront/pkg/migrate"
)

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL session store schema",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", migrate.DefaultDir, "goose migrations directory (create, validate)")

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Scaffold a new SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.CreateSQLMigration(dir, args[0])
			if err != nil {
				return fmt.Errorf("create migration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check that every migration has goose up and down sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrate.ValidateDir(dir); err != nil {
				return fmt.Errorf("migration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
			return nil
		},
	})
	for _, name := range []string{"up", "down", "status"} {
		command := name
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: "Run goose " + command + " against the configured database",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd, command, func(e *env, client *db.Client) error {
					sqlDB, err := client.DB().DB()
					if err != nil {
						return fmt.Errorf("extract sql.DB: %w", err)
					}
					return migrate.Run(e.ctx, sqlDB, client.Dialect(), command)
				})
			},
		})
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "version VERSION",
		Short: "Migrate up or down to VERSION (YYYYMMDDHHMMSS)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, "version", func(e *env, client *db.Client) error {
				sqlDB, err := client.DB().DB()
				if err != nil {
					return fmt.Errorf("extract sql.DB: %w", err)
				}
				return migrate.MigrateToVersion(e.ctx, sqlDB, client.Dialect(), args[0])
			})
		},
	})
	return cmd
}

func withDB(cmd *cobra.Command, command string, fn func(*env, *db.Client) error) error {
	e, err := loadEnv(cmd.Context(), "migrate "+command)
	if err != nil {
		return err
	}
	client, err := db.New(e.ctx, e.cfg.DB, e.logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()
	e.logg.Info(e.ctx, "migrate ready")
	return fn(e, client)
}
