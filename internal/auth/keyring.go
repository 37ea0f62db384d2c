package auth

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "teamanage"

// tokenKey is the keyring entry that holds the bearer token.
const tokenKey = "api-token"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/teamanage/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("teamanage-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// StoredToken retrieves the persisted bearer token. A missing entry is
// returned as an error; callers treat it as "not logged in".
func StoredToken() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		return "", fmt.Errorf("getting stored token: %w", err)
	}

	return string(item.Data), nil
}

// StoreToken persists the bearer token in the system keyring.
func StoreToken(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// ClearToken removes the persisted bearer token.
func ClearToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}

	return nil
}
