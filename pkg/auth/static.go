package auth

import (
	"context"
	"crypto/subtle"
)

// StaticTokenVerifier accepts exactly "Bearer <token>" for a single configured token.
type StaticTokenVerifier struct {
	expected []byte
}

func NewStaticTokenVerifier(token string) *StaticTokenVerifier {
	return &StaticTokenVerifier{expected: []byte(bearerPrefix + token)}
}

func (v *StaticTokenVerifier) Verify(_ context.Context, credential string) error {
	if subtle.ConstantTimeCompare([]byte(credential), v.expected) != 1 {
		return ErrInvalidCredential
	}
	return nil
}
