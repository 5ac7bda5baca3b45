package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/macromind-app/macromind-cli/internal/common"
	"github.com/macromind-app/macromind-cli/internal/models"
)

// newRequestID tags each logical API call for log correlation. A replayed
// request keeps the id of the call it replays.
func newRequestID() string {
	return uuid.NewString()
}

// doRequest performs one HTTP exchange. The payload is marshalled fresh for
// every attempt, so a replay never reuses a consumed body. Network-level
// failures come back as transportError; HTTP statuses are returned as data.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, payload any, bearer, requestID string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.HeaderRequestID, requestID)
	if bearer != "" {
		req.Header.Set(common.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "request_id", requestID, "path", path, "error", err)
		return 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, transportError(err)
	}
	return resp.StatusCode, respBody, nil
}

// doAuthenticated attaches the current access token and, on the first
// authentication failure of this logical call, refreshes the pair once and
// replays the call exactly once. Any other status, and a replay's own 401,
// are returned unmodified.
func (c *HTTPClient) doAuthenticated(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	requestID := newRequestID()

	token := c.currentTokens().AccessToken
	status, body, err := c.doRequest(ctx, method, path, payload, token, requestID)
	if err != nil || status != http.StatusUnauthorized {
		return status, body, err
	}

	newToken, err := c.refreshShared(ctx, token)
	if err != nil {
		return 0, nil, err
	}

	c.log.Debug(ctx, "token refreshed, replaying request", "request_id", requestID, "path", path)
	return c.doRequest(ctx, method, path, payload, newToken, requestID)
}

// refreshShared rotates the token pair at most once across all concurrent
// callers. Every caller that hit a 401 with the same stale access token
// awaits the single in-flight refresh instead of issuing its own; callers
// whose token was already rotated get the fresh one without a network call.
// A failed refresh is fatal: tokens are dropped, the session-expired hook
// fires, and all waiters receive the shared SessionExpired error.
func (c *HTTPClient) refreshShared(ctx context.Context, failedToken string) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		current := c.currentTokens()

		// A concurrent caller may have finished the rotation already.
		if current.AccessToken != "" && current.AccessToken != failedToken {
			return current.AccessToken, nil
		}

		if current.RefreshToken == "" {
			c.expireSession(ctx)
			return nil, sessionExpiredError()
		}

		pair, refreshErr := c.Refresh(ctx, current.RefreshToken)
		if refreshErr != nil {
			c.log.Warn(ctx, "token refresh failed", "error", refreshErr)
			c.expireSession(ctx)
			return nil, sessionExpiredError()
		}

		c.SetTokens(pair)
		if c.onTokensRotated != nil {
			c.onTokensRotated(ctx, pair)
		}
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// expireSession drops the pair and fires the hook, but only once per
// session: a straggler arriving after the teardown finds nothing to expire.
func (c *HTTPClient) expireSession(ctx context.Context) {
	c.mu.Lock()
	had := c.tokens.AccessToken != "" || c.tokens.RefreshToken != ""
	c.tokens = models.TokenPair{}
	c.mu.Unlock()

	if had && c.onSessionExpired != nil {
		c.onSessionExpired(ctx)
	}
}
