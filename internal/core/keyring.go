package core

import (
	"context"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used for keyring entries
	keyringService = "forkr"

	// keyringTimeout is the timeout for keyring operations
	keyringTimeout = 5 * time.Second
)

// KeyringError represents an error during keyring operations
type KeyringError struct {
	Operation string
	Err       error
}

func (e *KeyringError) Error() string {
	return fmt.Sprintf("keyring %s failed: %v", e.Operation, e.Err)
}

func (e *KeyringError) Unwrap() error {
	return e.Err
}

// keyringKey generates a consistent key format for stored tokens
func keyringKey(host string) string {
	return fmt.Sprintf("token:%s", host)
}

// StoreLoginToken stores a token in the system keyring with timeout
func StoreLoginToken(host, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), keyringTimeout)
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- keyring.Set(keyringService, keyringKey(host), token)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return &KeyringError{Operation: "set", Err: err}
		}

		return nil
	case <-ctx.Done():
		return &KeyringError{Operation: "set", Err: ctx.Err()}
	}
}

// LoginToken retrieves a token from the system keyring with timeout
func LoginToken(host string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), keyringTimeout)
	defer cancel()

	type result struct {
		token string
		err   error
	}

	resultCh := make(chan result, 1)

	go func() {
		token, err := keyring.Get(keyringService, keyringKey(host))
		resultCh <- result{token: token, err: err}
	}()

	select {
	case r := <-resultCh:
		if r.err != nil {
			return "", &KeyringError{Operation: "get", Err: r.err}
		}

		return r.token, nil
	case <-ctx.Done():
		return "", &KeyringError{Operation: "get", Err: ctx.Err()}
	}
}

// DeleteLoginToken removes a token from the system keyring with timeout
func DeleteLoginToken(host string) error {
	ctx, cancel := context.WithTimeout(context.Background(), keyringTimeout)
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- keyring.Delete(keyringService, keyringKey(host))
	}()

	select {
	case err := <-errCh:
		if err != nil {
			// Ignore "not found" errors when deleting
			if err == keyring.ErrNotFound {
				return nil
			}

			return &KeyringError{Operation: "delete", Err: err}
		}

		return nil
	case <-ctx.Done():
		return &KeyringError{Operation: "delete", Err: ctx.Err()}
	}
}

// IsKeyringAvailable checks if the system keyring is available
func IsKeyringAvailable() bool {
	// Try to set and delete a test key
	testKey := "__forkr_keyring_test__"

	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return false
	}

	_ = keyring.Delete(keyringService, testKey)

	return true
}
