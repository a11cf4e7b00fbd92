package site

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetDailyMenu returns the ordered item ids of day's special menu.
// day is a weekday index, 0 (Sunday) through 6 (Saturday).
func (c *Client) GetDailyMenu(ctx context.Context, day int) ([]int64, error) {
	if day < 0 || day > 6 {
		return nil, fmt.Errorf("site: day must be 0..6, got %d", day)
	}
	raw, err := c.getRaw(ctx, fmt.Sprintf("/api/daily-menu/%d", day))
	if err != nil {
		return nil, err
	}
	var items []int64
	if err = json.Unmarshal(unwrapField(raw, "items"), &items); err != nil {
		return nil, fmt.Errorf("site: decode daily menu failed: %w", err)
	}
	return items, nil
}

// SetDailyMenu replaces day's special menu with the given item ids, in order.
func (c *Client) SetDailyMenu(ctx context.Context, day int, items []int64) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("site: day must be 0..6, got %d", day)
	}
	if items == nil {
		items = []int64{}
	}
	body := map[string][]int64{"items": items}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/api/daily-menu/%d", day), body, nil)
}
