package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/config"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/services"
)

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Work with identity tokens",
	}
	tokenCmd.AddCommand(newTokenInspectCmd())
	return tokenCmd
}

func newTokenInspectCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a token and print its claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWT.Secret
			}

			claims, err := services.NewTokenService(secret, time.Hour, "").Verify(args[0])
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"userId":   claims.UserID,
				"tenantId": claims.TenantID,
				"role":     claims.Role,
			}
			if claims.ExpiresAt != nil {
				out["expiresAt"] = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
			}
			if claims.IssuedAt != nil {
				out["issuedAt"] = claims.IssuedAt.Time.UTC().Format(time.RFC3339)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to jwt.secret from the environment)")
	return cmd
}
