// Package cmd implements the vaultctl command tree.
package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orgvault/orgvault/pkg/cli/client"
	"github.com/orgvault/orgvault/pkg/cli/session"
)

const (
	defaultServer = "http://localhost:3000"
	version       = "0.1.0"
	userAgent     = "vaultctl/" + version
)

// runtimeState carries resolved flags and injectable IO so commands stay
// testable.
type runtimeState struct {
	server      string
	provider    string
	sessionPath string
	writer      io.Writer
	reader      io.Reader
	openURL     func(url string) error
}

func (rt *runtimeState) apiClient(token string) (*client.Client, error) {
	opts := []client.Option{client.WithServer(rt.server), client.WithUserAgent(userAgent)}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(opts...)
}

func (rt *runtimeState) loadSession() (*session.Session, error) {
	return session.Load(rt.sessionPath)
}

// readLine reads one trimmed line of user input.
func (rt *runtimeState) readLine() (string, error) {
	scanner := bufio.NewScanner(rt.reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return scanner.Text(), nil
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&runtimeState{
		writer:  os.Stdout,
		reader:  os.Stdin,
		openURL: openBrowser,
	})
}

func newRootCommand(rt *runtimeState) *cobra.Command {
	root := &cobra.Command{
		Use:           "vaultctl",
		Short:         "CLI for the orgvault secret service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if rt.server == "" {
				rt.server = os.Getenv("ORGVAULT_SERVER")
			}
			if rt.server == "" {
				rt.server = defaultServer
			}
			if rt.sessionPath == "" {
				rt.sessionPath = session.DefaultPath()
			}
		},
	}
	root.PersistentFlags().StringVar(&rt.server, "server", rt.server, "orgvault server URL (default $ORGVAULT_SERVER or "+defaultServer+")")
	root.PersistentFlags().StringVar(&rt.sessionPath, "session-file", rt.sessionPath, "path to the saved session (default $ORGVAULT_SESSION_FILE or ~/.orgvault/session.json)")

	root.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newSecretsCommand(rt),
	)
	return root
}

// Execute runs the root command and returns its exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
