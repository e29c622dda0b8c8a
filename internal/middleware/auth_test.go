package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	userID string
	err    error
	calls  int
}

func (s *stubVerifier) VerifyToken(_ string) (string, error) {
	s.calls++
	return s.userID, s.err
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	protected := func(mw *AuthMiddleware) (http.Handler, *string) {
		var seenUserID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenUserID, _ = UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		return mw.RequireAuth(next), &seenUserID
	}

	t.Run("passes the verified subject to the handler", func(t *testing.T) {
		verifier := &stubVerifier{userID: "user-1"}
		handler, seenUserID := protected(NewAuthMiddleware(verifier))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", *seenUserID)
	})

	t.Run("rejects requests without a bearer header before verification", func(t *testing.T) {
		for name, header := range map[string]string{
			"no header":        "",
			"wrong scheme":     "Token sometoken",
			"lowercase scheme": "bearer sometoken",
			"bare token":       "sometoken",
		} {
			t.Run(name, func(t *testing.T) {
				verifier := &stubVerifier{userID: "user-1"}
				handler, _ := protected(NewAuthMiddleware(verifier))

				req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
				if header != "" {
					req.Header.Set("Authorization", header)
				}
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)

				require.Equal(t, http.StatusUnauthorized, rec.Code)
				require.Equal(t, "authorization token is required", decodeError(t, rec))
				require.Zero(t, verifier.calls)
			})
		}
	})

	t.Run("rejects tokens the verifier refuses", func(t *testing.T) {
		verifier := &stubVerifier{err: errors.New("bad signature")}
		handler, _ := protected(NewAuthMiddleware(verifier))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer tampered")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid or expired token", decodeError(t, rec))
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}
