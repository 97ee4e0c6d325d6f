package auth

import "sync"

// MockStore implements SecretStore in memory for tests
type MockStore struct {
	name  string
	creds *Credentials
	mu    sync.RWMutex

	// Error injection for testing
	LoadError  error
	SaveError  error
	ClearError error
}

// NewMockStore creates a new mock credential store, optionally pre-populated
func NewMockStore(name string, creds *Credentials) *MockStore {
	return &MockStore{name: name, creds: creds}
}

func (m *MockStore) Name() string {
	return m.name
}

func (m *MockStore) Load() (*Credentials, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.creds == nil {
		return nil, ErrCredentialsNotFound
	}
	cp := *m.creds
	return &cp, nil
}

func (m *MockStore) Save(creds *Credentials) error {
	if m.SaveError != nil {
		return m.SaveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *creds
	m.creds = &cp
	return nil
}

func (m *MockStore) Clear() error {
	if m.ClearError != nil {
		return m.ClearError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.creds == nil {
		return ErrCredentialsNotFound
	}
	m.creds = nil
	return nil
}
