package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/spendwatch/spendwatch/internal/auth"
)

func authTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{tokens: auth.NewTokenManager("test-secret", time.Hour)}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("valid token reaches the handler with the user ID", func(t *testing.T) {
		t.Parallel()
		s := authTestServer(t)
		token, err := s.tokens.Issue(42)
		require.NoError(t, err)

		var gotID int64
		handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			id, ok := UserIDFromContext(r.Context())
			require.True(t, ok)
			gotID = id
			w.WriteHeader(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, int64(42), gotID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		t.Parallel()
		s := authTestServer(t)
		handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		envelope := decodeError(t, rec)
		require.False(t, envelope.Success)
		require.Equal(t, "not_authorized", envelope.Error.Code)
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		t.Parallel()
		s := authTestServer(t)
		handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		t.Parallel()
		s := authTestServer(t)
		other := auth.NewTokenManager("other-secret", time.Hour)
		token, err := other.Issue(42)
		require.NoError(t, err)

		handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		envelope := decodeError(t, rec)
		require.Equal(t, "not_authorized", envelope.Error.Code)
	})
}

func TestUserIDFromContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	require.False(t, ok)
}
