package auth

import (
	"context"
	"errors"
)

// ErrInvalidCredential is returned when the presented credential is missing or does not verify.
var ErrInvalidCredential = errors.New("invalid or missing credential")

// Verifier checks the raw value of an Authorization header.
type Verifier interface {
	Verify(ctx context.Context, credential string) error
}

const bearerPrefix = "Bearer "
