package site

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// MetricsRange bounds a metrics query. Empty fields are omitted; dates are
// whatever format the dashboard passes through (YYYY-MM-DD in practice).
type MetricsRange struct {
	From string
	To   string
}

func (r MetricsRange) values() url.Values {
	p := url.Values{}
	if r.From != "" {
		p.Set("from", r.From)
	}
	if r.To != "" {
		p.Set("to", r.To)
	}
	return p
}

func withQuery(path string, p url.Values) string {
	if enc := p.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// metricsGet fetches an admin metrics endpoint and unwraps the {"data": ...}
// envelope. Metric shapes are dashboard-defined and stay raw.
func (c *Client) metricsGet(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := c.getRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(unwrapField(raw, "data")), nil
}

// GetVisitorTotals returns aggregate visitor counters.
func (c *Client) GetVisitorTotals(ctx context.Context) (json.RawMessage, error) {
	return c.metricsGet(ctx, "/api/admin/metrics/visitors/totals")
}

// GetVisitorDaily returns per-day visitor counts in the given range.
func (c *Client) GetVisitorDaily(ctx context.Context, r MetricsRange) (json.RawMessage, error) {
	return c.metricsGet(ctx, withQuery("/api/admin/metrics/visitors/daily", r.values()))
}

// GetClicksDaily returns per-day item click counts, optionally for one item.
func (c *Client) GetClicksDaily(ctx context.Context, r MetricsRange, itemID int64) (json.RawMessage, error) {
	p := r.values()
	if itemID > 0 {
		p.Set("itemId", strconv.FormatInt(itemID, 10))
	}
	return c.metricsGet(ctx, withQuery("/api/admin/metrics/clicks/daily", p))
}

// GetTopClicked returns the most clicked items in the given range.
func (c *Client) GetTopClicked(ctx context.Context, r MetricsRange, limit int) (json.RawMessage, error) {
	p := r.values()
	if limit <= 0 {
		limit = 10
	}
	p.Set("limit", strconv.Itoa(limit))
	return c.metricsGet(ctx, withQuery("/api/admin/metrics/clicks/top", p))
}

// GetExternalClicksDaily returns per-day outbound link click counts.
func (c *Client) GetExternalClicksDaily(ctx context.Context, r MetricsRange) (json.RawMessage, error) {
	return c.metricsGet(ctx, withQuery("/api/admin/metrics/external/daily", r.values()))
}

// GetExternalTopClicked returns the most clicked outbound links.
func (c *Client) GetExternalTopClicked(ctx context.Context, r MetricsRange, limit int) (json.RawMessage, error) {
	p := r.values()
	if limit <= 0 {
		limit = 10
	}
	p.Set("limit", strconv.Itoa(limit))
	return c.metricsGet(ctx, withQuery("/api/admin/metrics/external/top", p))
}
