package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/migration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			_, store, err := openPostgres(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			sqlDB, err := store.DB().DB()
			if err != nil {
				return err
			}
			applied, err := migration.Run(commandContext(cmd), sqlDB, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
			return nil
		},
	}
}
