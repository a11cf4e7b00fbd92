package site

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/sjson"
)

// GetAppSettings returns the full admin settings document. Its shape is
// dashboard-defined, so it stays a raw JSON document.
func (c *Client) GetAppSettings(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.getRaw(ctx, "/api/admin/settings")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// UpdateAppSettings applies an arbitrary patch to the admin settings.
func (c *Client) UpdateAppSettings(ctx context.Context, patch map[string]any) error {
	return c.send(ctx, http.MethodPut, "/api/admin/settings", patch, nil)
}

// SetAppSetting updates one (possibly nested) settings field addressed by a
// dotted path, e.g. "hours.monday.open". The patch document is built with
// sjson so intermediate objects are created as needed.
func (c *Client) SetAppSetting(ctx context.Context, path string, value any) error {
	patch, err := sjson.SetBytes([]byte(`{}`), path, value)
	if err != nil {
		return fmt.Errorf("site: build settings patch failed: %w", err)
	}
	_, err = c.api.Do(ctx, http.MethodPut, "/api/admin/settings", patch)
	return err
}

// GetPublicAppSettings returns the end-user visible settings. The server
// wraps them in {"app_settings": {...}}.
func (c *Client) GetPublicAppSettings(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.getRaw(ctx, "/api/settings")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(unwrapField(raw, "app_settings")), nil
}
