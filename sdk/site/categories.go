package site

import (
	"context"
	"fmt"
	"net/http"
)

// ListCategories returns the public (active) categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getInto(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllCategories returns every category, including inactive ones (admin).
func (c *Client) ListAllCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getInto(ctx, "/api/categories/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, payload any) (*Category, error) {
	var out Category
	if err := c.send(ctx, http.MethodPost, "/api/categories", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, payload any) (*Category, error) {
	var out Category
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCategoryActive toggles a category's visibility.
func (c *Client) SetCategoryActive(ctx context.Context, id int64, active bool) error {
	body := map[string]bool{"is_active": active}
	return c.send(ctx, http.MethodPatch, fmt.Sprintf("/api/categories/%d/active", id), body, nil)
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil, nil)
}
