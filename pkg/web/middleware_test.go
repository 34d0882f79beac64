package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abgdnv/productapi/pkg/auth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockVerifier is a mock implementation of the auth.Verifier interface for testing purposes.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, credential string) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthMiddleware(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		authHeader         string
		setupMock          func(m *MockVerifier)
		expectedStatusCode int
		shouldCallNext     bool
	}{
		{
			name:       "Success - valid credential",
			path:       "/api/products",
			authHeader: "Bearer good",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "Bearer good").Return(nil)
			},
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
		},
		{
			name:       "Success - public path without credential",
			path:       "/",
			authHeader: "",
			setupMock: func(m *MockVerifier) { // Verify must not be called
			},
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
		},
		{
			name:       "Success - public path with a bad credential",
			path:       "/",
			authHeader: "Bearer wrong",
			setupMock: func(m *MockVerifier) { // Verify must not be called
			},
			expectedStatusCode: http.StatusOK,
			shouldCallNext:     true,
		},
		{
			name:       "Failure - no auth header",
			path:       "/api/products/1",
			authHeader: "",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "").Return(auth.ErrInvalidCredential)
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Failure - public path is matched exactly",
			path:       "/api",
			authHeader: "",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "").Return(auth.ErrInvalidCredential)
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "Failure - verifier infrastructure error",
			path:       "/api/products",
			authHeader: "Bearer token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "Bearer token").Return(errors.New("jwks unavailable"))
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockVerifier := new(MockVerifier)
			tc.setupMock(mockVerifier)
			nextHandlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextHandlerCalled = true
				w.WriteHeader(http.StatusOK)
			})
			handler := AuthMiddleware(mockVerifier, discardLogger(), []string{"/"})(next)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			// when
			handler.ServeHTTP(rr, req)
			// then
			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.shouldCallNext, nextHandlerCalled)
			if !tc.shouldCallNext {
				assert.JSONEq(t, `{"error":"Unauthorized: Invalid or missing token"}`, rr.Body.String())
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
			mockVerifier.AssertExpectations(t)
		})
	}
}

func TestRequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
	}{
		{name: "generates an id", incoming: ""},
		{name: "keeps the caller's id", incoming: "abc-123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			handler := RequestIDInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header.Set(middleware.RequestIDHeader, tc.incoming)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.NotEmpty(t, seen)
			if tc.incoming != "" {
				assert.Equal(t, tc.incoming, seen)
			}
			assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	nextCalled := false
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	// when
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/products?sort=name", nil))
	// then
	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Request received", line["msg"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/api/products?sort=name", line["path"])
	assert.NotEmpty(t, line["time"])
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("abc"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/products", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Request completed", line["msg"])
	assert.EqualValues(t, http.StatusCreated, line["status"])
	assert.EqualValues(t, 3, line["bytes_written"])
}

func TestRecoverer(t *testing.T) {
	// given
	handler := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	// when
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	})
	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, rr.Body.String())
}
