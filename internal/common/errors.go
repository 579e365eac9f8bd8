// Package common defines shared sentinel errors and small helpers used across
// credkeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthorized is the single outcome of every failed login, whatever
	// stage rejected it.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument reports an empty or malformed input to mint or register.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDecode reports a token or stored ciphertext that cannot be decrypted or parsed.
	ErrDecode = errors.New("decode error")

	// ErrStoreUnavailable reports a user store fault. It fails the request
	// but is never reported as an authentication failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)
