package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Credentials are the two secrets the relay forwards to Instagram
type Credentials struct {
	SessionCookie string    `json:"session_cookie"`
	AppID         string    `json:"app_id"`
	LastModified  time.Time `json:"last_modified"`
}

// Complete reports whether both secrets are present
func (c Credentials) Complete() bool {
	return c.SessionCookie != "" && c.AppID != ""
}

// SecretStore is a source of Credentials
type SecretStore interface {
	// Name identifies the store in status output
	Name() string

	// Load returns the stored credentials, possibly partial
	Load() (*Credentials, error)

	// Save persists credentials
	Save(creds *Credentials) error

	// Clear removes stored credentials
	Clear() error
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)

// Manager resolves credentials from an ordered list of stores
type Manager struct {
	stores []SecretStore
}

// NewManager creates a manager with the environment, keyring and encrypted
// file stores, in that order. Unavailable stores are skipped.
func NewManager() (*Manager, error) {
	stores := []SecretStore{NewEnvironmentStore()}

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit stores
func NewManagerWithStores(stores ...SecretStore) *Manager {
	return &Manager{stores: stores}
}

// Resolution is the outcome of Resolve, with the store each secret came from
type Resolution struct {
	Credentials  Credentials
	CookieSource string
	AppIDSource  string
}

// Resolve fills each missing field of base from the first store that has it.
// Values already present in base win.
func (m *Manager) Resolve(base Credentials) Resolution {
	res := Resolution{Credentials: base}
	if base.SessionCookie != "" {
		res.CookieSource = "config"
	}
	if base.AppID != "" {
		res.AppIDSource = "config"
	}

	for _, store := range m.stores {
		if res.Credentials.Complete() {
			break
		}
		creds, err := store.Load()
		if err != nil || creds == nil {
			continue
		}
		if res.Credentials.SessionCookie == "" && creds.SessionCookie != "" {
			res.Credentials.SessionCookie = creds.SessionCookie
			res.CookieSource = store.Name()
		}
		if res.Credentials.AppID == "" && creds.AppID != "" {
			res.Credentials.AppID = creds.AppID
			res.AppIDSource = store.Name()
		}
	}

	return res
}

// Save stores credentials in the first store that accepts them
func (m *Manager) Save(creds *Credentials) (string, error) {
	if creds == nil || creds.SessionCookie == "" {
		return "", errors.New("session cookie is required")
	}
	if creds.AppID == "" {
		return "", errors.New("app id is required")
	}

	creds.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Save(creds); err == nil {
			return store.Name(), nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return "", errors.New("no available credential stores")
}

// Clear removes credentials from every writable store
func (m *Manager) Clear() error {
	var errs []error
	for _, store := range m.stores {
		if err := store.Clear(); err != nil &&
			!errors.Is(err, ErrStoreUnavailable) &&
			!errors.Is(err, ErrCredentialsNotFound) {
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		}
	}
	return errors.Join(errs...)
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
		configDir = filepath.Join(home, "Library", "Application Support", "igrelay")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "igrelay")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "igrelay")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "igrelay")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}
