package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orgvault/orgvault/pkg/cli/client"
)

func newSecretsCommand(rt *runtimeState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Read and write your organization's secrets",
	}
	cmd.AddCommand(
		newSecretsListCommand(rt),
		newSecretsCreateCommand(rt),
	)
	return cmd
}

func newSecretsListCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the organization's secrets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.loadSession()
			if err != nil {
				return err
			}
			if s == nil {
				// no network call when unauthenticated
				fmt.Fprintln(rt.writer, "You are not logged in. Run `vaultctl login` first.")
				return nil
			}

			api, err := rt.apiClient(s.Token)
			if err != nil {
				return err
			}
			list, err := api.ListSecrets(cmd.Context())
			if err != nil {
				if client.IsUnauthorized(err) {
					return fmt.Errorf("session expired; run `vaultctl login` again")
				}
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(rt.writer, "No secrets yet.")
				return nil
			}

			tw := tabwriter.NewWriter(rt.writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tCREATED")
			for _, sec := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", sec.Key, sec.Value, sec.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newSecretsCreateCommand(rt *runtimeState) *cobra.Command {
	var key, value string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a new secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.loadSession()
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("you are not logged in; run `vaultctl login` first")
			}

			api, err := rt.apiClient(s.Token)
			if err != nil {
				return err
			}
			created, err := api.CreateSecret(cmd.Context(), key, value)
			if err != nil {
				if client.IsUnauthorized(err) {
					return fmt.Errorf("session expired; run `vaultctl login` again")
				}
				return err
			}
			fmt.Fprintf(rt.writer, "Created secret %s (id %s).\n", created.Key, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "secret key (required)")
	cmd.Flags().StringVar(&value, "value", "", "secret value (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
