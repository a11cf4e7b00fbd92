package session

import (
	"bytes"
	"context"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// refreshFlightKey keys the singleflight group; one key means at most one
// refresh round-trip is in flight per client at any time.
const refreshFlightKey = "token-refresh"

// Refresh exchanges the server-held refresh cookie for a new access token.
// Concurrent callers share a single network round-trip and receive the
// identical boolean outcome; the flight clears when the call settles, so a
// later 401 can trigger a fresh attempt.
//
// Refresh never returns an error: false uniformly means "could not refresh".
//
// A failed refresh emits EventSessionExpired from inside the flight, so a
// cluster of concurrent callers observing the same failure produces exactly
// one emission.
func (c *Client) Refresh(ctx context.Context) bool {
	result, _, _ := c.refreshGroup.Do(refreshFlightKey, func() (any, error) {
		refreshed := c.doRefresh(ctx)
		if !refreshed {
			c.bus.Emit(EventSessionExpired)
		}
		return refreshed, nil
	})
	refreshed, _ := result.(bool)
	return refreshed
}

func (c *Client) doRefresh(ctx context.Context) bool {
	// The new token must land in the tier the old one occupied, so the
	// remember preference is inferred from current stored state up front.
	_, remember := c.store.StoredToken()

	log.Debug("refreshing access token")

	// Later joiners of the flight share this outcome, so the first caller's
	// cancellation must not poison it; only the per-attempt timeout applies.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	body, err := sjson.SetBytes([]byte(`{}`), "remember", remember)
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(refreshCtx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		log.WithField("error", err).Warn("token refresh request failed")
		return false
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.WithField("status", res.StatusCode).Warn("token refresh rejected")
		return false
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return false
	}
	token := gjson.GetBytes(data, "token").String()
	if token == "" {
		log.Warn("token refresh response missing token")
		return false
	}

	c.store.SetToken(token, remember, true)
	log.WithField("remember", remember).Info("token refresh complete")
	return true
}
