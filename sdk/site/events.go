package site

import (
	"context"
	"fmt"
	"net/http"
)

// GetActiveEvents returns events whose activity window currently applies.
func (c *Client) GetActiveEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.getInto(ctx, "/api/events", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAllEventsPublic returns every event without requiring admin auth.
func (c *Client) GetAllEventsPublic(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.getInto(ctx, "/api/events/all-public", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEventPublic returns one event by id.
func (c *Client) GetEventPublic(ctx context.Context, id int64) (*Event, error) {
	var out Event
	if err := c.getInto(ctx, fmt.Sprintf("/api/events/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllEvents returns every event, including inactive ones (admin).
func (c *Client) ListAllEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.getInto(ctx, "/api/events/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent creates an event.
func (c *Client) CreateEvent(ctx context.Context, payload any) (*Event, error) {
	var out Event
	if err := c.send(ctx, http.MethodPost, "/api/events", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent replaces an event.
func (c *Client) UpdateEvent(ctx context.Context, id int64, payload any) (*Event, error) {
	var out Event
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/events/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/events/%d", id), nil, nil)
}

// ListEventOverrides returns the per-item overrides of an event (admin).
func (c *Client) ListEventOverrides(ctx context.Context, eventID int64) ([]EventOverride, error) {
	var out []EventOverride
	if err := c.getInto(ctx, fmt.Sprintf("/api/events/%d/overrides", eventID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertEventOverride creates or replaces the override for one item.
func (c *Client) UpsertEventOverride(ctx context.Context, eventID, itemID int64, payload any) (*EventOverride, error) {
	var out EventOverride
	if err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/events/%d/overrides/%d", eventID, itemID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEventOverride removes the override for one item.
func (c *Client) DeleteEventOverride(ctx context.Context, eventID, itemID int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/events/%d/overrides/%d", eventID, itemID), nil, nil)
}
