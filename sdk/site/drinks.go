package site

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetDrinksMenu returns the public drinks menu sections. The server wraps the
// list in a {"sections": [...]} envelope.
func (c *Client) GetDrinksMenu(ctx context.Context) ([]DrinksSection, error) {
	raw, err := c.getRaw(ctx, "/api/drinks")
	if err != nil {
		return nil, err
	}
	var sections []DrinksSection
	if err = json.Unmarshal(unwrapField(raw, "sections"), &sections); err != nil {
		return nil, fmt.Errorf("site: decode drinks menu failed: %w", err)
	}
	return sections, nil
}

// CreateDrinksSection creates a section.
func (c *Client) CreateDrinksSection(ctx context.Context, payload any) (*DrinksSection, error) {
	var out DrinksSection
	if err := c.send(ctx, http.MethodPost, "/api/drinks/sections", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDrinksSection replaces a section.
func (c *Client) UpdateDrinksSection(ctx context.Context, id int64, payload any) (*DrinksSection, error) {
	var out DrinksSection
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/drinks/sections/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDrinksSection removes a section.
func (c *Client) DeleteDrinksSection(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/drinks/sections/%d", id), nil, nil)
}

// ReorderDrinksSections persists a new section order.
func (c *Client) ReorderDrinksSections(ctx context.Context, orderIDs []int64) error {
	body := map[string][]int64{"order": orderIDs}
	return c.send(ctx, http.MethodPost, "/api/drinks/sections/reorder", body, nil)
}

// CreateDrinksGroup creates a group inside a section.
func (c *Client) CreateDrinksGroup(ctx context.Context, payload any) (*DrinksGroup, error) {
	var out DrinksGroup
	if err := c.send(ctx, http.MethodPost, "/api/drinks/groups", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDrinksGroup replaces a group.
func (c *Client) UpdateDrinksGroup(ctx context.Context, id int64, payload any) (*DrinksGroup, error) {
	var out DrinksGroup
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/drinks/groups/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDrinksGroup removes a group.
func (c *Client) DeleteDrinksGroup(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/drinks/groups/%d", id), nil, nil)
}

// ReorderDrinksGroups persists a new group order within a section.
func (c *Client) ReorderDrinksGroups(ctx context.Context, sectionID int64, orderIDs []int64) error {
	body := map[string][]int64{"order": orderIDs}
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/api/drinks/sections/%d/groups/reorder", sectionID), body, nil)
}

// CreateDrinksItem creates a drink row.
func (c *Client) CreateDrinksItem(ctx context.Context, payload any) (*DrinksItem, error) {
	var out DrinksItem
	if err := c.send(ctx, http.MethodPost, "/api/drinks/items", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDrinksItem replaces a drink row.
func (c *Client) UpdateDrinksItem(ctx context.Context, id int64, payload any) (*DrinksItem, error) {
	var out DrinksItem
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/drinks/items/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDrinksItem removes a drink row.
func (c *Client) DeleteDrinksItem(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/drinks/items/%d", id), nil, nil)
}
