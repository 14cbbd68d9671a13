package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orgvault/orgvault/pkg/cli/session"
)

func newLogoutCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.loadSession()
			if err != nil {
				return err
			}
			if s == nil {
				fmt.Fprintln(rt.writer, "You are not logged in.")
				return nil
			}
			if err := session.Delete(rt.sessionPath); err != nil {
				return err
			}
			fmt.Fprintln(rt.writer, "Logged out.")
			return nil
		},
	}
}
