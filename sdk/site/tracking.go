package site

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/izumi-house/siteclient/sdk/session"
)

// beaconTimeout bounds fire-and-forget tracking calls so they never outlive
// the action that triggered them by much.
const beaconTimeout = 3 * time.Second

// TrackPhoneAction records a phone interaction (tap-to-call and friends).
// Delivery is fire-and-forget: the call runs in the background with its own
// timeout and failures are dropped, mirroring the sendBeacon behavior of the
// web frontend.
func (c *Client) TrackPhoneAction(phone, action string) {
	c.beacon("/api/track/phone", map[string]string{"phone": phone, "action": action})
}

// TrackEmailAction records an email interaction.
func (c *Client) TrackEmailAction(email, action string) {
	c.beacon("/api/track/email", map[string]string{"email": email, "action": action})
}

func (c *Client) beacon(path string, payload map[string]string) {
	beaconID := uuid.NewString()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
		defer cancel()
		err := c.sendBeacon(ctx, path, payload, beaconID)
		if err != nil {
			log.WithFields(log.Fields{"path": path, "error": err}).Debug("tracking beacon dropped")
		}
	}()
}

func (c *Client) sendBeacon(ctx context.Context, path string, payload map[string]string, beaconID string) error {
	return c.sendWithOptions(ctx, http.MethodPost, path, payload, nil, session.WithHeader("X-Beacon-Id", beaconID))
}

// sendWithOptions mirrors send but forwards per-request options.
func (c *Client) sendWithOptions(ctx context.Context, method, path string, body, out any, opts ...session.RequestOption) error {
	raw, err := marshalBody(body)
	if err != nil {
		return err
	}
	payload, err := c.api.Do(ctx, method, path, raw, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return payload.Decode(out)
}
