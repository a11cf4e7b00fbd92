package session

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// User is the authenticated identity returned by the auth endpoints.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Login authenticates against POST /api/login and stores the returned token
// in the tier selected by remember. Login itself never enters the 401 refresh
// flow.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (*User, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password, Remember: remember})
	if err != nil {
		return nil, err
	}
	payload, err := c.Do(ctx, http.MethodPost, loginPath, body, WithoutAuthRetry())
	if err != nil {
		return nil, err
	}
	if token := gjson.GetBytes(payload.Bytes(), "token").String(); token != "" {
		c.store.SetToken(token, remember, true)
	}
	return decodeUser(payload.Bytes())
}

// Logout best-effort invalidates the server session and always clears local
// credentials, even when the call fails.
func (c *Client) Logout(ctx context.Context) {
	if _, err := c.Do(ctx, http.MethodPost, logoutPath, nil, WithoutAuthRetry()); err != nil {
		log.WithField("error", err).Debug("logout call failed; clearing local credentials anyway")
	}
	c.store.Clear()
}

// Me fetches the current user from GET /api/me. The server may return either
// {"user": {...}} or a bare user object.
func (c *Client) Me(ctx context.Context) (*User, error) {
	payload, err := c.Do(ctx, http.MethodGet, "/api/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(payload.Bytes())
}

// Bootstrap restores a previously persisted session at process start: the
// stored token (if any) is loaded into memory and verified with a who-am-I
// call. An unverifiable token is treated as invalid and all credentials are
// cleared (fail closed). A nil user with nil error means no stored session.
func (c *Client) Bootstrap(ctx context.Context) (*User, error) {
	token, _ := c.store.LoadInMemory()
	if token == "" {
		return nil, nil
	}
	user, err := c.Me(ctx)
	if err != nil {
		log.WithField("error", err).Info("stored token failed verification; clearing credentials")
		c.store.Clear()
		return nil, err
	}
	return user, nil
}

func decodeUser(data []byte) (*User, error) {
	raw := data
	if nested := gjson.GetBytes(data, "user"); nested.Exists() && nested.IsObject() {
		raw = []byte(nested.Raw)
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
