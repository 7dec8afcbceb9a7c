// Package tokenstore holds the opaque authentication token in a named slot that
// survives process restarts. Contents are never validated.
package tokenstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const service = "clubdesk"

// Store defines the token slot operations.
// Implementations must treat a missing token as the empty string, not an error.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Remove() error
}

// Keyring stores the token in the OS keychain/credential manager
type Keyring struct {
	key string
}

// NewKeyring returns a keyring slot scoped to the given API origin
func NewKeyring(origin string) *Keyring {
	return &Keyring{key: fmt.Sprintf("token-%s", origin)}
}

func (k *Keyring) Get() (string, error) {
	token, err := keyring.Get(service, k.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (k *Keyring) Set(token string) error {
	if err := keyring.Set(service, k.key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (k *Keyring) Remove() error {
	if err := keyring.Delete(service, k.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Memory is an in-process slot. Used by tests and the console's ephemeral mode.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a memory slot holding the given initial token
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove() error {
	return m.Set("")
}

// Token reads the slot and treats read failures as "no token".
// The guard and the request interceptor only need presence.
func Token(s Store) string {
	token, err := s.Get()
	if err != nil {
		return ""
	}
	return token
}
