package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orgvault/orgvault/pkg/cli/session"
)

func newLoginCommand(rt *runtimeState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in through the browser and link this CLI",
		Long: `Opens the server's login page in your browser. After you authenticate,
the browser shows a one-time token; paste it here to link this CLI to
your account.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loginURL := strings.TrimRight(rt.server, "/") + "/auth/" + rt.provider + "?cli=true"

			fmt.Fprintf(rt.writer, "Opening %s in your browser...\n", loginURL)
			if err := rt.openURL(loginURL); err != nil {
				fmt.Fprintf(rt.writer, "Could not open a browser; visit the URL above manually.\n")
			}

			fmt.Fprint(rt.writer, "Paste the token shown after login: ")
			token, err := rt.readLine()
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("no token provided")
			}

			api, err := rt.apiClient("")
			if err != nil {
				return err
			}
			id, err := api.ResolveToken(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			s := &session.Session{
				Server:         rt.server,
				Token:          id.Token,
				UserID:         id.UserID,
				Username:       id.Username,
				OrganizationID: id.OrganizationID,
			}
			if err := session.Save(rt.sessionPath, s); err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "Logged in as %s.\n", id.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&rt.provider, "provider", "github", "identity provider to log in with")
	return cmd
}

// openBrowser launches the platform's URL opener; failures are non-fatal and
// the caller falls back to printing the URL.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
