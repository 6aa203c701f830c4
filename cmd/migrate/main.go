// Command migrate aplica o revierte el esquema PostgreSQL del marketplace.
//
//	migrate up            aplica todas las migraciones pendientes
//	migrate down -s 1     revierte N pasos (por defecto 1)
//	migrate version       muestra la versión actual
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

var (
	dsnFlag   string
	downSteps int
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Migraciones del esquema PostgreSQL (stock, inventarizaciones, pedidos)",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := resolveDSN()
		if err != nil {
			return err
		}
		v, err := postgres.MigrateUp(dsn)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "esquema en la versión %d\n", v)
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte migraciones (por defecto un paso)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if downSteps < 1 {
			return fmt.Errorf("--steps debe ser >= 1")
		}
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Steps(-downSteps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate down: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revertidos %d paso(s)\n", downSteps)
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión actual del esquema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			v, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones aplicadas")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "connection string PostgreSQL (por defecto DATABASE_URL / DB_*)")
	downCmd.Flags().IntVarP(&downSteps, "steps", "s", 1, "número de migraciones a revertir")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func resolveDSN() (string, error) {
	if dsnFlag != "" {
		return dsnFlag, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DB.ConnectionString(), nil
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	dsn, err := resolveDSN()
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func main() {
	log := logger.New(logger.Config{Env: os.Getenv("APP_ENV"), Level: "info", App: "migrate"})
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("migración fallida")
		os.Exit(1)
	}
}
