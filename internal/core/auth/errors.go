package auth

import "errors"

// Authentication failures. The interceptor maps ErrKeyRevoked to
// PermissionDenied and ErrUnavailable to Unavailable. Everything else is
// Unauthenticated.
var (
	ErrMissingKey       = errors.New("API key required in x-api-key metadata")
	ErrInvalidKeyFormat = errors.New("invalid API key format")
	ErrUnknownKey       = errors.New("unknown secret ID")
	ErrInvalidKey       = errors.New("invalid API key")
	ErrKeyRevoked       = errors.New("API key has been revoked")
	ErrUnavailable      = errors.New("key store unavailable")
)
