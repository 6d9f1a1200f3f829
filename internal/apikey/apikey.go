// Package apikey stores provider API keys in the operating system keychain,
// with an environment variable fallback for headless machines.
package apikey

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// service is the keychain service name shared by all providers.
const service = "techexpert"

// ErrNotFound is returned when no key is stored for the provider and the
// environment fallback is empty.
var ErrNotFound = errors.New("api key not found")

func account(provider string) string {
	return strings.ToLower(provider) + "_api_key"
}

func envVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

// Get resolves the API key for a provider. The keychain wins over the
// environment so that an explicitly stored key is never shadowed.
func Get(provider string) (string, error) {
	key, err := keyring.Get(service, account(provider))
	if err == nil && key != "" {
		return key, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("reading keychain: %w", err)
	}

	if key := os.Getenv(envVar(provider)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w for provider %q (set it with 'techexpert key set' or export %s)", ErrNotFound, provider, envVar(provider))
}

// Set stores the API key in the keychain.
func Set(provider, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key must not be empty")
	}
	if err := keyring.Set(service, account(provider), key); err != nil {
		return fmt.Errorf("writing keychain: %w", err)
	}
	return nil
}

// Delete removes the stored key. Deleting a key that was never stored is
// not an error.
func Delete(provider string) error {
	err := keyring.Delete(service, account(provider))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keychain entry: %w", err)
	}
	return nil
}
