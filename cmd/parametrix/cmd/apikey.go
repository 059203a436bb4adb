package cmd

import (
	"fmt"
	"sort"

	"github.com/solatis/parametrix/internal/core/auth"
	"github.com/solatis/parametrix/internal/core/config"
	"github.com/solatis/parametrix/internal/core/db"
	"github.com/spf13/cobra"
)

func newAPIKeyCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage service API keys",
	}
	cmd.AddCommand(newAPIKeyCreateCommand(root), newAPIKeyRevokeCommand(root))
	return cmd
}

func newAPIKeyCreateCommand(root *rootOptions) *cobra.Command {
	var tenantID, name, secretID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Mint an API key for a tenant",
		Long: `Mint an API key signed with one of the configured HMAC secrets. Only the
key's HMAC is stored; the key itself is printed once and cannot be recovered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets, err := config.HMACSecrets()
			if err != nil {
				return fmt.Errorf("failed to load HMAC secrets: %w", err)
			}
			id, err := selectSecret(secrets, secretID)
			if err != nil {
				return err
			}

			key, hash, err := auth.GenerateAPIKey(id, secrets[id])
			if err != nil {
				return err
			}

			database, err := openDB(root)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.RequireMigrated(database); err != nil {
				return err
			}
			store, err := db.NewStore(database)
			if err != nil {
				return fmt.Errorf("failed to load queries: %w", err)
			}

			apiKeyID, err := store.CreateAPIKey(cmd.Context(), tenantID, name, hash)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.format == "json" {
				return writeJSON(out, map[string]string{
					"api_key_id": apiKeyID,
					"tenant_id":  tenantID,
					"api_key":    key,
				})
			}
			fmt.Fprintf(out, "api_key_id: %s\n", apiKeyID)
			fmt.Fprintf(out, "tenant_id:  %s\n", tenantID)
			fmt.Fprintf(out, "api_key:    %s\n", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant the key authenticates as")
	cmd.Flags().StringVar(&name, "name", "", "human-readable key name")
	cmd.Flags().StringVar(&secretID, "secret-id", "", "HMAC secret to sign with (required when several are configured)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func newAPIKeyRevokeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <api-key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB(root)
			if err != nil {
				return err
			}
			defer database.Close()

			store, err := db.NewStore(database)
			if err != nil {
				return fmt.Errorf("failed to load queries: %w", err)
			}
			if err := store.RevokeAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
			return nil
		},
	}
}

// selectSecret picks the signing secret: the requested one, or the only one.
func selectSecret(secrets map[string][]byte, requested string) (string, error) {
	if len(secrets) == 0 {
		return "", fmt.Errorf("no HMAC secrets configured (set %s_HMAC_SECRET environment variable)", config.EnvPrefix)
	}
	if requested != "" {
		if _, ok := secrets[requested]; !ok {
			return "", fmt.Errorf("HMAC secret %s not configured", requested)
		}
		return requested, nil
	}
	if len(secrets) > 1 {
		ids := make([]string, 0, len(secrets))
		for id := range secrets {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return "", fmt.Errorf("several HMAC secrets configured, choose one with --secret-id (%v)", ids)
	}
	for id := range secrets {
		return id, nil
	}
	return "", nil
}
