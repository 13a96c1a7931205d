package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Credentials holds the four OAuth 1.0a values of a Twitter API app.
type Credentials struct {
	Label          string    `json:"label"`
	ConsumerKey    string    `json:"consumer_key"`
	ConsumerSecret string    `json:"consumer_secret"`
	AccessToken    string    `json:"access_token"`
	AccessSecret   string    `json:"access_secret"`
	LastModified   time.Time `json:"last_modified"`
}

// Validate checks that all four OAuth values are present.
func (c *Credentials) Validate() error {
	if c.ConsumerKey == "" {
		return errors.New("consumer key is required")
	}
	if c.ConsumerSecret == "" {
		return errors.New("consumer secret is required")
	}
	if c.AccessToken == "" {
		return errors.New("access token is required")
	}
	if c.AccessSecret == "" {
		return errors.New("access secret is required")
	}
	return nil
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials under their label
	Store(creds *Credentials) error

	// Retrieve gets credentials for a specific label
	Retrieve(label string) (*Credentials, error)

	// List returns all stored credentials
	List() ([]*Credentials, error)

	// Delete removes credentials for a specific label
	Delete(label string) error

	// Exists checks if credentials exist for a label
	Exists(label string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves credentials using the first available store
func (m *Manager) Store(creds *Credentials) error {
	if creds.Label == "" {
		return errors.New("label is required")
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	creds.LastModified = time.Now()

	// Try each store in order
	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(label string) (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(label); err == nil && creds != nil {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("credentials not found for label: %s", label)
}

// RetrieveDefault gets credentials from the environment or the first stored set
func (m *Manager) RetrieveDefault() (*Credentials, error) {
	// First try the environment, so exported variables always win
	if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
		if creds, err := envStore.Retrieve(""); err == nil && creds != nil {
			return creds, nil
		}
	}

	// Then try the first available credential set
	all, err := m.List()
	if err == nil && len(all) > 0 {
		return all[0], nil
	}

	return nil, ErrCredentialsNotFound
}

// List returns all stored credentials from all stores
func (m *Manager) List() ([]*Credentials, error) {
	credMap := make(map[string]*Credentials)

	for _, store := range m.stores {
		all, err := store.List()
		if err != nil {
			continue
		}
		for _, creds := range all {
			// Use the most recently modified version
			if existing, ok := credMap[creds.Label]; !ok || creds.LastModified.After(existing.LastModified) {
				credMap[creds.Label] = creds
			}
		}
	}

	var result []*Credentials
	for _, creds := range credMap {
		result = append(result, creds)
	}

	return result, nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete(label string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(label); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credentials not found for label: %s", label)
	}

	return nil
}

// DeleteAll removes all stored credentials
func (m *Manager) DeleteAll() error {
	all, err := m.List()
	if err != nil {
		return err
	}

	for _, creds := range all {
		_ = m.Delete(creds.Label) // Ignore individual errors
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "tweetharvest")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "tweetharvest")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "tweetharvest")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "tweetharvest")
		}
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize creates a copy of the credentials with secrets masked
func Sanitize(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}

	return &Credentials{
		Label:          creds.Label,
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: maskString(creds.ConsumerSecret),
		AccessToken:    maskString(creds.AccessToken),
		AccessSecret:   maskString(creds.AccessSecret),
		LastModified:   creds.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
