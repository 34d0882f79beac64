package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StaticTokenVerifier(t *testing.T) {
	verifier := NewStaticTokenVerifier("mysecrettoken123")

	testCases := []struct {
		name       string
		credential string
		wantErr    bool
	}{
		{name: "exact bearer token", credential: "Bearer mysecrettoken123"},
		{name: "missing header", credential: "", wantErr: true},
		{name: "token without scheme", credential: "mysecrettoken123", wantErr: true},
		{name: "wrong token", credential: "Bearer nope", wantErr: true},
		{name: "lowercase scheme", credential: "bearer mysecrettoken123", wantErr: true},
		{name: "trailing whitespace", credential: "Bearer mysecrettoken123 ", wantErr: true},
		{name: "prefix of token", credential: "Bearer mysecret", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := verifier.Verify(context.Background(), tc.credential)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredential)
				return
			}
			assert.NoError(t, err)
		})
	}
}
