package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

func newSeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the accounts every deployment needs",
	}
	seedCmd.AddCommand(newSeedSystemTenantCmd())
	seedCmd.AddCommand(newSeedSuperAdminCmd())
	return seedCmd
}

func newSeedSystemTenantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "system-tenant",
		Short: "Create the system tenant the super-admin logs in through",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, store, err := openPostgres(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			seed := services.NewSeedService(store, services.NewPasswordService(cfg.Auth.BcryptCost), logger)
			tenant, created, err := seed.EnsureSystemTenant(commandContext(cmd), cfg.Auth.SystemSubdomain)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created system tenant %s (%s)\n", tenant.Subdomain, tenant.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "System tenant %s already exists (%s)\n", tenant.Subdomain, tenant.ID)
			}
			return nil
		},
	}
}

func newSeedSuperAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "super-admin",
		Short: "Create the global super-admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, store, err := openPostgres(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if email == "" {
				email = cfg.Auth.SuperAdminEmail
			}
			seed := services.NewSeedService(store, services.NewPasswordService(cfg.Auth.BcryptCost), logger)
			user, created, err := seed.EnsureSuperAdmin(commandContext(cmd), email, password, name)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created super admin %s (%s)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Super admin %s already exists\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "super-admin email (defaults to auth.super_admin_email)")
	cmd.Flags().StringVar(&password, "password", "", "super-admin password")
	cmd.Flags().StringVar(&name, "name", "Super Admin", "display name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
