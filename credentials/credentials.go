// Package credentials stores the database password for the sitebook CLI
// in the system keyring:
// - macOS: Keychain
// - Windows: Credential Manager
// - Linux: Secret Service (libsecret)
//
// For CI and scripted environments, SITEBOOK_DB_PASSWORD overrides the
// keyring entirely.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keyring service under which secrets are stored.
	ServiceName = "sitebook"

	keyDatabasePassword = "database-password"
)

// ErrNoCredentials is returned when no password is stored.
var ErrNoCredentials = errors.New("no credentials stored")

// SetDatabasePassword stores the database password in the keyring.
func SetDatabasePassword(password string) error {
	if err := keyring.Set(ServiceName, keyDatabasePassword, password); err != nil {
		return fmt.Errorf("storing database password: %w", err)
	}
	return nil
}

// DatabasePassword returns the database password, preferring the
// SITEBOOK_DB_PASSWORD environment variable over the keyring.
func DatabasePassword() (string, error) {
	if password := os.Getenv("SITEBOOK_DB_PASSWORD"); password != "" {
		return password, nil
	}

	password, err := keyring.Get(ServiceName, keyDatabasePassword)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoCredentials
	}
	if err != nil {
		return "", fmt.Errorf("reading database password: %w", err)
	}
	return password, nil
}

// DeleteDatabasePassword removes the stored database password. Deleting
// a password that was never stored is not an error.
func DeleteDatabasePassword() error {
	err := keyring.Delete(ServiceName, keyDatabasePassword)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting database password: %w", err)
	}
	return nil
}

// MaskCredential returns a masked version of a secret for display.
func MaskCredential(cred string) string {
	if len(cred) <= 8 {
		return strings.Repeat("*", len(cred))
	}
	return cred[:4] + strings.Repeat("*", len(cred)-8) + cred[len(cred)-4:]
}
