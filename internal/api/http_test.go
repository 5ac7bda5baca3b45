package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macromind-app/macromind-cli/internal/common"
	"github.com/macromind-app/macromind-cli/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func testUser(completed bool) *models.User {
	return &models.User{
		ID:    "u-1",
		Email: "a@b.com",
		Profile: models.Profile{
			FitnessGoal:            models.GoalMaintain,
			DietaryPreference:      models.DietNone,
			HasCompletedOnboarding: completed,
		},
	}
}

func TestLogin_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body credentialsBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body.Email)
		assert.Equal(t, "Abcd1234", body.Password)
		assert.NotEmpty(t, r.Header.Get(common.HeaderRequestID))
		writeJSON(t, w, http.StatusOK, models.TokenPair{AccessToken: "at", RefreshToken: "rt"})
	})
	c := newTestClient(t, mux)

	pair, err := c.Login(context.Background(), "a@b.com", "Abcd1234")
	require.NoError(t, err)
	assert.Equal(t, "at", pair.AccessToken)
	assert.Equal(t, "rt", pair.RefreshToken)
	assert.Equal(t, pair, c.currentTokens(), "pair must be installed on the client")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
	})
	c := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "a@b.com", "WrongPass1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Incorrect email or password")
}

func TestRegister_LocalValidationShortCircuits(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "malformed email", email: "not-an-email", password: "Abcd1234"},
		{name: "too short", email: "a@b.com", password: "Ab1"},
		{name: "no uppercase", email: "a@b.com", password: "abcd1234"},
		{name: "no lowercase", email: "a@b.com", password: "ABCD1234"},
		{name: "no digit", email: "a@b.com", password: "Abcdefgh"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Register(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, common.ErrValidationFailed)
		})
	}
	assert.Equal(t, int32(0), hits.Load(), "validation failures must never reach the network")
}

func TestRegister_ServerRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{"error": "email already registered"})
	})
	c := newTestClient(t, mux)

	_, err := c.Register(context.Background(), "a@b.com", "Abcd1234")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestFetchProfile_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get(common.HeaderAuthorization))
		writeJSON(t, w, http.StatusOK, testUser(true))
	})
	c := newTestClient(t, mux)
	c.SetTokens(models.TokenPair{AccessToken: "at", RefreshToken: "rt"})

	user, err := c.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.True(t, user.Profile.HasCompletedOnboarding)
}

func TestFetchProfile_MissingFlagMeansNotCompleted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		// No has_completed_onboarding field at all.
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id": "u-1", "email": "a@b.com",
			"profile": map[string]any{"fitness_goal": "maintain", "dietary_preference": "none"},
		})
	})
	c := newTestClient(t, mux)
	c.SetTokens(models.TokenPair{AccessToken: "at", RefreshToken: "rt"})

	user, err := c.FetchProfile(context.Background())
	require.NoError(t, err)
	assert.False(t, user.Profile.HasCompletedOnboarding)
}

func TestLogout_SurfacesServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	c := newTestClient(t, mux)
	c.SetTokens(models.TokenPair{AccessToken: "at", RefreshToken: "rt"})

	err := c.Logout(context.Background())
	require.Error(t, err, "caller decides whether to ignore; the gateway never swallows")
	assert.Contains(t, err.Error(), "boom")
}

func TestTransportErrorIsTyped(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", 200*time.Millisecond, nil)

	_, err := c.Login(context.Background(), "a@b.com", "Abcd1234")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.NotContains(t, err.Error(), "dial tcp", "raw transport detail stays out of the user-facing message")
}

func TestMessageFromBody_Precedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "error wins", body: `{"error":"e","message":"m","detail":"d"}`, want: "e"},
		{name: "then message", body: `{"message":"m","detail":"d"}`, want: "m"},
		{name: "then detail", body: `{"detail":"d"}`, want: "d"},
		{name: "fallback on empty", body: `{}`, want: "generic"},
		{name: "fallback on junk", body: `<html>`, want: "generic"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, messageFromBody([]byte(tc.body), "generic"))
		})
	}
}
