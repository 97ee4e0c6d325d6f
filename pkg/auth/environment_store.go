package auth

import "os"

// Environment variable names holding the secrets
const (
	EnvSessionCookie = "INSTAGRAM_COOKIE"
	EnvAppID         = "INSTAGRAM_APP_ID"
)

// EnvironmentStore reads credentials from environment variables. It is read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string {
	return "environment"
}

// Load returns whatever subset of the secrets is set
func (e *EnvironmentStore) Load() (*Credentials, error) {
	creds := &Credentials{
		SessionCookie: os.Getenv(EnvSessionCookie),
		AppID:         os.Getenv(EnvAppID),
	}
	if creds.SessionCookie == "" && creds.AppID == "" {
		return nil, ErrCredentialsNotFound
	}
	return creds, nil
}

func (e *EnvironmentStore) Save(creds *Credentials) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Clear() error {
	return ErrStoreUnavailable
}
