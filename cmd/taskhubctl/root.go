package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/config"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskhubctl",
		Short: "TaskHub administration CLI",
		Long: `taskhubctl runs administrative tasks against the TaskHub database:
applying migrations, seeding the system tenant and super-admin, and inspecting tokens.
Connection settings come from the same environment variables as the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

// openPostgres loads config and opens the Postgres store the server would use
func openPostgres(logger *logrus.Logger) (*config.Config, *repository.PostgresStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Driver != "postgres" {
		return nil, nil, fmt.Errorf("database.driver is %q; taskhubctl only manages postgres", cfg.Database.Driver)
	}
	store, err := repository.Open(repository.Options{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
