// Package vault holds the bearer token issued at login. A FileVault is the
// durable side-channel the rest of the client reads the token from; nothing
// else is ever persisted locally.
package vault

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

type fileContents struct {
	Token string `json:"token"`
}

// FileVault stores the token as a JSON file with owner-only permissions.
type FileVault struct {
	path string
}

func NewFileVault(path string) *FileVault {
	return &FileVault{path: path}
}

// DefaultPath resolves to ~/.vehicleregistry/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vehicleregistry", "credentials.json"), nil
}

// Get returns the stored token, or "" when no token has been saved yet.
func (v *FileVault) Get() (string, error) {
	data, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var c fileContents
	if err := json.Unmarshal(data, &c); err != nil {
		return "", err
	}
	return c.Token, nil
}

func (v *FileVault) Set(token string) error {
	return v.write(fileContents{Token: token})
}

func (v *FileVault) Clear() error {
	return v.write(fileContents{})
}

func (v *FileVault) write(c fileContents) error {
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(v.path, data, 0o600)
}

// MemoryVault is an in-process token slot for tests and embedding callers.
type MemoryVault struct {
	mu    sync.Mutex
	token string
}

func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

func (v *MemoryVault) Get() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token, nil
}

func (v *MemoryVault) Set(token string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = token
	return nil
}

func (v *MemoryVault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = ""
	return nil
}
