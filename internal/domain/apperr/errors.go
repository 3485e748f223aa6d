// Package apperr defines the error taxonomy handlers map to HTTP responses.
// Services wrap these with fmt.Errorf("...: %w", err); handlers classify with
// errors.As / errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// ErrReauthenticationRequired means no usable refresh token exists; the user
// must redo the consent flow. Retrying never helps.
var ErrReauthenticationRequired = errors.New("reauthentication required")

// ErrInvalidState means the OAuth state nonce is unknown, expired, or already
// consumed.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// ConfigurationError indicates missing server-side configuration (client
// credentials). Fatal, operator-facing, never retried.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// AuthenticationError indicates the caller's identity is missing or invalid.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// TokenExchangeError indicates the provider rejected the authorization code.
// Body carries the raw provider payload for diagnostics; it is only echoed on
// authenticated dashboard routes, never to the open webhook.
type TokenExchangeError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange with %s failed: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

// TokenRefreshError indicates a refresh attempt failed. The stored credential
// is left untouched when this is returned.
type TokenRefreshError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh with %s failed: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

// NotFoundError indicates a client asked for a record that does not exist
// (unknown form id, unknown lead). A client error, not a system failure.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// StorageError indicates the backing store is unreachable or rejected a
// write. Safe for the caller to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
