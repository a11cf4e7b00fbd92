package site

import (
	"context"
	"fmt"
	"net/http"
)

// GetMenu fetches the public menu and normalizes it into display-ready
// categories. withReviews asks the server to embed review summaries.
func (c *Client) GetMenu(ctx context.Context, withReviews bool) ([]MenuCategory, error) {
	q := ""
	if withReviews {
		q = "?withReviews=1"
	}
	raw, err := c.getRaw(ctx, "/api/menu"+q)
	if err != nil {
		return nil, err
	}
	return NormalizeMenu(raw), nil
}

// ListMenuItems returns the raw server-side item list (admin table view).
func (c *Client) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.getInto(ctx, "/api/menu", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetMenuItem fetches one item, optionally with its reviews embedded.
func (c *Client) GetMenuItem(ctx context.Context, id int64, withReviews bool) (*MenuItem, error) {
	q := ""
	if withReviews {
		q = "?withReviews=1"
	}
	var item MenuItem
	if err := c.getInto(ctx, fmt.Sprintf("/api/menu/%d%s", id, q), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateMenuItem creates an item from an arbitrary payload and returns the
// stored row.
func (c *Client) CreateMenuItem(ctx context.Context, payload any) (*MenuItem, error) {
	var item MenuItem
	if err := c.send(ctx, http.MethodPost, "/api/menu", payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateMenuItem replaces an item.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, payload any) (*MenuItem, error) {
	var item MenuItem
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/menu/%d", id), payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteMenuItem removes an item.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/menu/%d", id), nil, nil)
}
