package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/macromind-app/macromind-cli/internal/logging"
	"github.com/macromind-app/macromind-cli/internal/models"
)

const (
	pathRegister   = "/api/auth/register"
	pathLogin      = "/api/auth/login"
	pathRefresh    = "/api/auth/refresh"
	pathMe         = "/api/auth/me"
	pathProfile    = "/api/auth/profile"
	pathOnboarding = "/api/auth/onboarding"
	pathLogout     = "/api/auth/logout"
)

// HTTPClient talks JSON over HTTP(S) to the auth service. It holds the
// current bearer pair and refreshes it transparently on authenticated calls
// (see transport.go). Safe for concurrent use.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger

	mu     sync.RWMutex
	tokens models.TokenPair

	refreshGroup singleflight.Group

	onTokensRotated  func(ctx context.Context, pair models.TokenPair)
	onSessionExpired func(ctx context.Context)
}

// NewHTTPClient returns a client for the service at baseURL
// (e.g. "https://api.macromind.app"). A zero timeout falls back to 30s,
// matching the web client.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logging.NopLogger{}
	}
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// OnTokensRotated registers the hook invoked with every refreshed pair so
// the owner can persist it. Must be set before the client is shared.
func (c *HTTPClient) OnTokensRotated(fn func(ctx context.Context, pair models.TokenPair)) {
	c.onTokensRotated = fn
}

// OnSessionExpired registers the hook invoked when a token refresh fails
// and the session is beyond recovery.
func (c *HTTPClient) OnSessionExpired(fn func(ctx context.Context)) {
	c.onSessionExpired = fn
}

func (c *HTTPClient) SetTokens(pair models.TokenPair) {
	c.mu.Lock()
	c.tokens = pair
	c.mu.Unlock()
}

func (c *HTTPClient) ClearTokens() {
	c.mu.Lock()
	c.tokens = models.TokenPair{}
	c.mu.Unlock()
}

func (c *HTTPClient) currentTokens() models.TokenPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// Register validates the input locally, then creates the account. The
// returned pair is installed on the client.
func (c *HTTPClient) Register(ctx context.Context, email, password string) (models.TokenPair, error) {
	if err := ValidateRegistration(email, password); err != nil {
		return models.TokenPair{}, err
	}
	return c.obtainTokens(ctx, pathRegister, credentialsBody{Email: email, Password: password})
}

// Login exchanges credentials for a token pair and installs it.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	if err := ValidateLogin(email, password); err != nil {
		return models.TokenPair{}, err
	}
	return c.obtainTokens(ctx, pathLogin, credentialsBody{Email: email, Password: password})
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) obtainTokens(ctx context.Context, path string, body credentialsBody) (models.TokenPair, error) {
	status, respBody, err := c.doRequest(ctx, http.MethodPost, path, body, "", newRequestID())
	if err != nil {
		return models.TokenPair{}, err
	}
	if status >= 400 && status < 500 {
		return models.TokenPair{}, credentialError(status, respBody)
	}
	if status < 200 || status >= 300 {
		return models.TokenPair{}, statusError(status, respBody)
	}
	var pair models.TokenPair
	if err := json.Unmarshal(respBody, &pair); err != nil {
		return models.TokenPair{}, transportError(fmt.Errorf("malformed token response: %w", err))
	}
	c.SetTokens(pair)
	return pair, nil
}

// Refresh rotates the token pair. It does not install the result; the
// interceptor and the session store decide what to do with it.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	body := map[string]string{"refresh_token": refreshToken}
	status, respBody, err := c.doRequest(ctx, http.MethodPost, pathRefresh, body, "", newRequestID())
	if err != nil {
		return models.TokenPair{}, err
	}
	if status < 200 || status >= 300 {
		return models.TokenPair{}, statusError(status, respBody)
	}
	var pair models.TokenPair
	if err := json.Unmarshal(respBody, &pair); err != nil {
		return models.TokenPair{}, transportError(fmt.Errorf("malformed token response: %w", err))
	}
	return pair, nil
}

// FetchProfile returns the current account snapshot. This is the only
// source of truth for the onboarding completion flag.
func (c *HTTPClient) FetchProfile(ctx context.Context) (*models.User, error) {
	return c.fetchUser(ctx, http.MethodGet, pathMe, nil)
}

// UpdateProfile applies a partial profile change and returns the resulting
// snapshot verbatim.
func (c *HTTPClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	return c.fetchUser(ctx, http.MethodPut, pathProfile, update)
}

// SubmitOnboarding uploads the onboarding answers. Idempotency is the
// server's call; nothing is enforced client-side.
func (c *HTTPClient) SubmitOnboarding(ctx context.Context, data models.OnboardingData) (*models.User, error) {
	return c.fetchUser(ctx, http.MethodPost, pathOnboarding, data)
}

func (c *HTTPClient) fetchUser(ctx context.Context, method, path string, payload any) (*models.User, error) {
	status, respBody, err := c.doAuthenticated(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(status, respBody)
	}
	var user models.User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, transportError(fmt.Errorf("malformed user response: %w", err))
	}
	return &user, nil
}

// Logout notifies the server, best-effort. It deliberately skips the
// refresh-and-replay path: a dying session must not trigger another refresh
// while the caller is tearing it down.
func (c *HTTPClient) Logout(ctx context.Context) error {
	token := c.currentTokens().AccessToken
	status, respBody, err := c.doRequest(ctx, http.MethodPost, pathLogout, nil, token, newRequestID())
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return statusError(status, respBody)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
