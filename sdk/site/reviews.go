package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func pageQuery(limit, offset int) string {
	p := url.Values{}
	p.Set("limit", strconv.Itoa(limit))
	p.Set("offset", strconv.Itoa(offset))
	return p.Encode()
}

// ListItemReviews returns a page of reviews for one item.
func (c *Client) ListItemReviews(ctx context.Context, itemID int64, limit, offset int) ([]Review, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Review
	path := fmt.Sprintf("/api/menu/%d/reviews?%s", itemID, pageQuery(limit, offset))
	if err := c.getInto(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItemReview submits a review for one item.
func (c *Client) CreateItemReview(ctx context.Context, itemID int64, payload any) (*Review, error) {
	var out Review
	if err := c.send(ctx, http.MethodPost, fmt.Sprintf("/api/menu/%d/reviews", itemID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLatestReviews returns a page of the most recent reviews across items.
func (c *Client) ListLatestReviews(ctx context.Context, limit, offset int) ([]Review, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Review
	if err := c.getInto(ctx, "/api/reviews/latest?"+pageQuery(limit, offset), &out); err != nil {
		return nil, err
	}
	return out, nil
}
