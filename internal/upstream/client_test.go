package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campus-auth/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "anon-key", 5*time.Second)
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	t.Run("sends credentials and returns the new id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/v1/signup", r.URL.Path)
			require.Equal(t, "anon-key", r.Header.Get("apikey"))
			require.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "alice@uni.edu", body["email"])
			require.Equal(t, "password123", body["password"])

			_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-1"})
		})

		id, err := client.SignUp(context.Background(), "alice@uni.edu", "password123")
		require.NoError(t, err)
		require.Equal(t, "user-1", id)
	})

	t.Run("unwraps a session envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "upstream-token",
				"user":         map[string]string{"id": "user-2"},
			})
		})

		id, err := client.SignUp(context.Background(), "bob@uni.edu", "password123")
		require.NoError(t, err)
		require.Equal(t, "user-2", id)
	})

	t.Run("maps a duplicate rejection to the conflict sentinel", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
		})

		_, err := client.SignUp(context.Background(), "alice@uni.edu", "password123")
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("keeps the store message on other failures", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": "database unavailable"})
		})

		_, err := client.SignUp(context.Background(), "alice@uni.edu", "password123")

		var upErr *Error
		require.ErrorAs(t, err, &upErr)
		require.Equal(t, http.StatusInternalServerError, upErr.Status)
		require.Equal(t, "database unavailable", upErr.Message)
	})
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	t.Run("uses the password grant and returns the user id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/v1/token", r.URL.Path)
			require.Equal(t, "password", r.URL.Query().Get("grant_type"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "upstream-token",
				"user":         map[string]string{"id": "user-1", "email": "alice@uni.edu"},
			})
		})

		id, err := client.SignIn(context.Background(), "alice@uni.edu", "password123")
		require.NoError(t, err)
		require.Equal(t, "user-1", id)
	})

	t.Run("any client-side rejection is invalid credentials", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
			})

			_, err := client.SignIn(context.Background(), "alice@uni.edu", "wrong")
			require.ErrorIs(t, err, model.ErrInvalidCredentials)
		}
	})

	t.Run("server failures are not invalid credentials", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.SignIn(context.Background(), "alice@uni.edu", "password123")
		require.Error(t, err)
		require.NotErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestProfileByEmail(t *testing.T) {
	t.Parallel()

	t.Run("filters by email and returns the row", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/rest/v1/profiles", r.URL.Path)
			require.Equal(t, "eq.alice@uni.edu", r.URL.Query().Get("email"))
			require.Equal(t, "1", r.URL.Query().Get("limit"))

			_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "user-1", "email": "alice@uni.edu"}})
		})

		profile, err := client.ProfileByEmail(context.Background(), "alice@uni.edu")
		require.NoError(t, err)
		require.NotNil(t, profile)
		require.Equal(t, "user-1", profile.ID)
	})

	t.Run("a miss is not an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode([]any{})
		})

		profile, err := client.ProfileByEmail(context.Background(), "nobody@uni.edu")
		require.NoError(t, err)
		require.Nil(t, profile)
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()

	t.Run("requests the restricted projection", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "eq.user-1", r.URL.Query().Get("id"))
			require.Equal(t, profileColumns, r.URL.Query().Get("select"))

			_ = json.NewEncoder(w).Encode([]map[string]any{{
				"id":         "user-1",
				"username":   "Alice",
				"email":      "alice@uni.edu",
				"avatar_url": nil,
				"bio":        "hi",
				"department": "Physics",
				"year":       3,
			}})
		})

		profile, err := client.Profile(context.Background(), "user-1")
		require.NoError(t, err)
		require.Equal(t, model.Profile{
			ID:         "user-1",
			Username:   "Alice",
			Email:      "alice@uni.edu",
			Bio:        "hi",
			Department: "Physics",
			Year:       3,
		}, profile)
	})

	t.Run("an empty result is user not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode([]any{})
		})

		_, err := client.Profile(context.Background(), "user-1")
		require.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/rest/v1/profiles", r.URL.Path)
		require.Equal(t, "eq.user-1", r.URL.Query().Get("id"))
		require.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]any{"username": "Alice"}, body)

		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateProfile(context.Background(), "user-1", map[string]any{"username": "Alice"})
	require.NoError(t, err)
}
