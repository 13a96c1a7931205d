package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testCredentials(label string) *Credentials {
	return &Credentials{
		Label:          label,
		ConsumerKey:    "test_consumer_key_12345",
		ConsumerSecret: "test_consumer_secret_67890",
		AccessToken:    "test_access_token_12345",
		AccessSecret:   "test_access_secret_67890",
		LastModified:   time.Now(),
	}
}

func TestCredentialManager(t *testing.T) {
	// Use mock manager for reliable testing
	manager, mockStore := NewMockManager()

	creds := testCredentials("testapp")

	err := manager.Store(creds)
	if err != nil {
		t.Errorf("Failed to store credentials: %v", err)
	}

	// Test retrieving credentials
	retrieved, err := manager.Retrieve("testapp")
	if err != nil {
		t.Errorf("Failed to retrieve credentials: %v", err)
	}

	if retrieved.Label != creds.Label {
		t.Errorf("Label mismatch: got %s, want %s", retrieved.Label, creds.Label)
	}
	if retrieved.ConsumerKey != creds.ConsumerKey {
		t.Errorf("ConsumerKey mismatch: got %s, want %s", retrieved.ConsumerKey, creds.ConsumerKey)
	}
	if retrieved.AccessSecret != creds.AccessSecret {
		t.Errorf("AccessSecret mismatch: got %s, want %s", retrieved.AccessSecret, creds.AccessSecret)
	}

	// Test listing
	all, err := manager.List()
	if err != nil {
		t.Errorf("Failed to list credentials: %v", err)
	}
	if len(all) == 0 {
		t.Error("Expected at least one credential set in list")
	}

	// Test sanitization
	sanitized := Sanitize(creds)
	if sanitized.ConsumerSecret == creds.ConsumerSecret {
		t.Error("ConsumerSecret should be masked")
	}
	if sanitized.AccessToken == creds.AccessToken {
		t.Error("AccessToken should be masked")
	}
	if sanitized.AccessSecret == creds.AccessSecret {
		t.Error("AccessSecret should be masked")
	}
	if sanitized.Label != creds.Label {
		t.Error("Label should not be masked")
	}
	if sanitized.ConsumerKey != creds.ConsumerKey {
		t.Error("ConsumerKey should not be masked")
	}

	// Test deletion
	err = manager.Delete("testapp")
	if err != nil {
		t.Errorf("Failed to delete credentials: %v", err)
	}

	// Verify deletion
	_, err = manager.Retrieve("testapp")
	if err == nil {
		t.Error("Expected error retrieving deleted credentials")
	}

	// Verify mock store state
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 credential sets after deletion, got %d", mockStore.Count())
	}
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Credentials)
		wantErr string
	}{
		{"complete", func(c *Credentials) {}, ""},
		{"missing consumer key", func(c *Credentials) { c.ConsumerKey = "" }, "consumer key is required"},
		{"missing consumer secret", func(c *Credentials) { c.ConsumerSecret = "" }, "consumer secret is required"},
		{"missing access token", func(c *Credentials) { c.AccessToken = "" }, "access token is required"},
		{"missing access secret", func(c *Credentials) { c.AccessSecret = "" }, "access secret is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := testCredentials("validate")
			tt.mutate(creds)

			err := creds.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEncryptedFileStore(t *testing.T) {
	// Create a temporary file
	tempFile := filepath.Join(t.TempDir(), "test_creds.enc")

	// Set test passphrase
	os.Setenv("TWEETHARVEST_PASSPHRASE", "test_passphrase_123")
	defer os.Unsetenv("TWEETHARVEST_PASSPHRASE")

	// Create store
	store, err := NewEncryptedFileStore(tempFile)
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	creds := testCredentials("encrypted_app")

	// Store
	err = store.Store(creds)
	if err != nil {
		t.Errorf("Failed to store in encrypted file: %v", err)
	}

	// Retrieve
	retrieved, err := store.Retrieve("encrypted_app")
	if err != nil {
		t.Errorf("Failed to retrieve from encrypted file: %v", err)
	}

	if retrieved.AccessSecret != creds.AccessSecret {
		t.Errorf("AccessSecret mismatch after encryption/decryption")
	}

	// Verify file is actually encrypted
	fileContent, err := os.ReadFile(tempFile)
	if err != nil {
		t.Fatal(err)
	}

	// File should not contain plaintext secrets
	if contains(fileContent, []byte(creds.ConsumerSecret)) {
		t.Error("File contains plaintext consumer secret")
	}
	if contains(fileContent, []byte(creds.AccessSecret)) {
		t.Error("File contains plaintext access secret")
	}
}

func TestEnvironmentStore(t *testing.T) {
	// Set environment variables
	os.Setenv(EnvConsumerKey, "env_consumer_key")
	os.Setenv(EnvConsumerSecret, "env_consumer_secret")
	os.Setenv(EnvAccessToken, "env_access_token")
	os.Setenv(EnvAccessSecret, "env_access_secret")
	defer func() {
		os.Unsetenv(EnvConsumerKey)
		os.Unsetenv(EnvConsumerSecret)
		os.Unsetenv(EnvAccessToken)
		os.Unsetenv(EnvAccessSecret)
	}()

	store := NewEnvironmentStore()

	// Test retrieve
	creds, err := store.Retrieve("")
	if err != nil {
		t.Errorf("Failed to retrieve from environment: %v", err)
	}

	if creds.ConsumerKey != "env_consumer_key" {
		t.Errorf("ConsumerKey mismatch: got %s, want env_consumer_key", creds.ConsumerKey)
	}
	if creds.AccessSecret != "env_access_secret" {
		t.Errorf("AccessSecret mismatch: got %s, want env_access_secret", creds.AccessSecret)
	}
	if creds.Label != "default" {
		t.Errorf("Label mismatch: got %s, want default", creds.Label)
	}

	// A partial set counts as not found
	os.Unsetenv(EnvAccessSecret)
	_, err = store.Retrieve("")
	if err != ErrCredentialsNotFound {
		t.Errorf("Expected ErrCredentialsNotFound for partial set, got %v", err)
	}

	// Test that store is not supported
	err = store.Store(&Credentials{})
	if err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
}

func TestRealManagerWithEncryptedStore(t *testing.T) {
	// Create a temporary directory for testing
	tempDir := t.TempDir()

	// Set passphrase for testing
	os.Setenv("TWEETHARVEST_PASSPHRASE", "test_passphrase_real_manager")
	defer os.Unsetenv("TWEETHARVEST_PASSPHRASE")

	// Create manager with only encrypted file store (most reliable for testing)
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(tempDir, "credentials.enc"))
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	manager := NewMockManagerWithStores(encryptedStore)

	creds := testCredentials("realapp")

	err = manager.Store(creds)
	if err != nil {
		t.Fatalf("Failed to store credentials: %v", err)
	}

	// Test listing
	all, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list credentials: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 credential set in list, got %d", len(all))
	}

	// Test retrieving
	retrieved, err := manager.Retrieve("realapp")
	if err != nil {
		t.Fatalf("Failed to retrieve credentials: %v", err)
	}

	if retrieved.Label != creds.Label {
		t.Errorf("Label mismatch: got %s, want %s", retrieved.Label, creds.Label)
	}
	if retrieved.ConsumerSecret != creds.ConsumerSecret {
		t.Errorf("ConsumerSecret mismatch: got %s, want %s", retrieved.ConsumerSecret, creds.ConsumerSecret)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	// Test empty store
	all, err := store.List()
	if err != nil {
		t.Errorf("Failed to list empty store: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected 0 credential sets, got %d", len(all))
	}

	// Test storing and retrieving
	creds := testCredentials("mockapp")

	err = store.Store(creds)
	if err != nil {
		t.Errorf("Failed to store credentials: %v", err)
	}

	// Verify count
	if store.Count() != 1 {
		t.Errorf("Expected 1 credential set, got %d", store.Count())
	}

	// Test exists
	if !store.Exists("mockapp") {
		t.Error("Credentials should exist")
	}

	// Test error injection
	store.ListError = fmt.Errorf("injected error")
	_, err = store.List()
	if err == nil || err.Error() != "injected error" {
		t.Error("Expected injected error")
	}
}

func contains(data []byte, substr []byte) bool {
	for i := 0; i <= len(data)-len(substr); i++ {
		if string(data[i:i+len(substr)]) == string(substr) {
			return true
		}
	}
	return false
}
