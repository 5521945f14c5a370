// Package credentials provides storage and retrieval of assistant API keys
// using the OS-native keyring, with fallback to environment variables.
package credentials

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// keyringService is the service name all keys are stored under.
const keyringService = "listy"

// Source indicates where a credential was retrieved from
type Source string

const (
	SourceKeyring     Source = "keyring"
	SourceEnvironment Source = "environment"
	SourceNone        Source = "none"
)

// Manager resolves API keys for assistant providers.
type Manager struct {
	ring Keyring
}

// NewManager creates a manager backed by the OS keyring. A .env file in
// the working directory is loaded once, best-effort, so development keys
// work without exporting them.
func NewManager() *Manager {
	_ = godotenv.Load()
	return &Manager{ring: &systemKeyring{}}
}

// NewManagerWithKeyring creates a manager with a custom keyring (tests).
func NewManagerWithKeyring(ring Keyring) *Manager {
	return &Manager{ring: ring}
}

// envVar returns the environment variable consulted for a provider,
// e.g. LISTY_GEMINI_API_KEY.
func envVar(provider string) string {
	return "LISTY_" + strings.ToUpper(strings.TrimSpace(provider)) + "_API_KEY"
}

// APIKey resolves the key for a provider: environment first, then the OS
// keyring. Returns the key, its source, and whether one was found.
func (m *Manager) APIKey(provider string) (string, Source, bool) {
	if key := strings.TrimSpace(os.Getenv(envVar(provider))); key != "" {
		return key, SourceEnvironment, true
	}

	key, err := m.ring.Get(keyringService, provider)
	if err != nil || strings.TrimSpace(key) == "" {
		return "", SourceNone, false
	}
	return key, SourceKeyring, true
}

// SetAPIKey stores a key for a provider in the keyring.
func (m *Manager) SetAPIKey(provider, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("refusing to store an empty API key")
	}
	return m.ring.Set(keyringService, provider, key)
}

// DeleteAPIKey removes the stored key for a provider from the keyring.
func (m *Manager) DeleteAPIKey(provider string) error {
	return m.ring.Delete(keyringService, provider)
}
