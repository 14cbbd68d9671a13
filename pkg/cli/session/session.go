// Package session persists the CLI's login state between invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the identity saved after `vaultctl login`.
type Session struct {
	Server         string `json:"server"`
	Token          string `json:"token"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	OrganizationID string `json:"organizationId"`
}

// DefaultPath returns the session file location, honoring ORGVAULT_SESSION_FILE.
func DefaultPath() string {
	if p := os.Getenv("ORGVAULT_SESSION_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orgvault-session.json"
	}
	return filepath.Join(home, ".orgvault", "session.json")
}

// Load reads a saved session. A missing file returns (nil, nil).
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the session with owner-only permissions; the token is a live
// credential.
func Save(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Delete removes the session file. Deleting a missing file is not an error.
func Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
