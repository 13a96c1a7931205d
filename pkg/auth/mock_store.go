package auth

import (
	"fmt"
	"sync"
)

// MockStore implements CredentialStore for testing purposes
type MockStore struct {
	creds map[string]*Credentials
	mu    sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{
		creds: make(map[string]*Credentials),
	}
}

// Store saves credentials to the mock store
func (m *MockStore) Store(creds *Credentials) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if creds == nil || creds.Label == "" {
		return ErrInvalidCredentials
	}

	// Create a copy to avoid external modifications
	credsCopy := *creds
	m.creds[creds.Label] = &credsCopy

	return nil
}

// Retrieve gets credentials from the mock store
func (m *MockStore) Retrieve(label string) (*Credentials, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if label == "" {
		return nil, ErrInvalidCredentials
	}

	creds, exists := m.creds[label]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	// Return a copy to avoid external modifications
	credsCopy := *creds
	return &credsCopy, nil
}

// List returns all stored credentials from the mock store
func (m *MockStore) List() ([]*Credentials, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []*Credentials
	for _, creds := range m.creds {
		// Create a copy for each entry
		credsCopy := *creds
		all = append(all, &credsCopy)
	}

	return all, nil
}

// Delete removes credentials from the mock store
func (m *MockStore) Delete(label string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if label == "" {
		return ErrInvalidCredentials
	}

	if _, exists := m.creds[label]; !exists {
		return ErrCredentialsNotFound
	}

	delete(m.creds, label)
	return nil
}

// Exists checks if credentials exist in the mock store
func (m *MockStore) Exists(label string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.creds[label]
	return exists
}

// Clear removes all credentials from the mock store (useful for test cleanup)
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = make(map[string]*Credentials)
}

// Count returns the number of credential sets in the mock store (useful for testing)
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.creds)
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	manager := &Manager{
		stores: []CredentialStore{mockStore},
	}
	return manager, mockStore
}

// NewMockManagerWithStores creates a Manager with multiple stores for testing
func NewMockManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{
		stores: stores,
	}
}

// GetCredentials returns a copy of the stored credentials for inspection (useful for testing)
func (m *MockStore) GetCredentials(label string) (*Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creds, exists := m.creds[label]
	if !exists {
		return nil, fmt.Errorf("credentials not found: %s", label)
	}

	credsCopy := *creds
	return &credsCopy, nil
}
