// Package site is the typed endpoint surface of the restaurant site API:
// menu, categories, daily specials, drinks, events, reviews, settings, and
// admin metrics, all layered over the session-managed request executor.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/izumi-house/siteclient/sdk/session"
)

// Client exposes the site API operations.
type Client struct {
	api *session.Client
}

// New wraps an authenticated session client.
func New(api *session.Client) *Client {
	return &Client{api: api}
}

// Session returns the underlying session client.
func (c *Client) Session() *session.Client { return c.api }

// send marshals body (when non-nil), performs the request, and decodes the
// JSON response into out (when non-nil).
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	raw, err := marshalBody(body)
	if err != nil {
		return err
	}
	payload, err := c.api.Do(ctx, method, path, raw)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return payload.Decode(out)
}

func (c *Client) getInto(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

// marshalBody marshals a non-nil request body to JSON.
func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("site: marshal request body failed: %w", err)
	}
	return raw, nil
}

// getRaw returns the raw JSON body of a GET.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	payload, err := c.api.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return payload.Bytes(), nil
}

// unwrapField returns the named envelope field when present and the whole
// document otherwise, matching the tolerant unwrapping the dashboard relies
// on (e.g. {"data": ...} vs a bare value).
func unwrapField(data []byte, field string) []byte {
	if v := gjson.GetBytes(data, field); v.Exists() {
		return []byte(v.Raw)
	}
	return data
}
