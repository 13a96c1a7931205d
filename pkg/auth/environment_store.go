package auth

import (
	"os"
	"time"
)

// Environment variable names for the four OAuth values.
const (
	EnvConsumerKey    = "TWEETHARVEST_CONSUMER_KEY"
	EnvConsumerSecret = "TWEETHARVEST_CONSUMER_SECRET"
	EnvAccessToken    = "TWEETHARVEST_ACCESS_TOKEN"
	EnvAccessSecret   = "TWEETHARVEST_ACCESS_SECRET"
)

// EnvironmentStore implements CredentialStore using environment variables
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables. All four
// values must be set; a partial set counts as not found.
func (e *EnvironmentStore) Retrieve(label string) (*Credentials, error) {
	creds := &Credentials{
		ConsumerKey:    os.Getenv(EnvConsumerKey),
		ConsumerSecret: os.Getenv(EnvConsumerSecret),
		AccessToken:    os.Getenv(EnvAccessToken),
		AccessSecret:   os.Getenv(EnvAccessSecret),
	}

	if err := creds.Validate(); err != nil {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables don't store a label, so we use "default" or the provided one
	if label == "" {
		label = "default"
	}
	creds.Label = label
	creds.LastModified = time.Now()

	return creds, nil
}

// List returns a single credential set if environment variables are set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(label string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(label string) bool {
	_, err := e.Retrieve(label)
	return err == nil
}
