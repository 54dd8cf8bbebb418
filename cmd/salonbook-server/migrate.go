package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"salonbook/backend/internal/store/postgres"
	"salonbook/backend/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
			db, err := postgres.Open(cmd.Context(), cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := postgres.Close(db); err != nil {
					log.Warn("database close failed", slog.Any("err", err))
				}
			}()

			applied, err := postgres.ApplyMigrations(cmd.Context(), db, migrations.FS, log)
			if err != nil {
				return err
			}
			log.Info("migrations complete", slog.Int("applied", len(applied)))
			return nil
		},
	})
	return cmd
}
