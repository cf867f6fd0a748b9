package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewWindow = time.Hour

// ViewCounter decides whether a question fetch counts as a new view. A viewer
// counts once per question per window.
// Key format: views:<question_id>:<viewer>
type ViewCounter struct {
	client *redis.Client
	window time.Duration
}

// NewViewCounter creates a ViewCounter wrapping the given Redis client. A
// non-positive window falls back to one hour.
func NewViewCounter(client *redis.Client, window time.Duration) *ViewCounter {
	if window <= 0 {
		window = defaultViewWindow
	}
	return &ViewCounter{client: client, window: window}
}

// FirstView marks the viewer as seen and reports whether they were unseen
// within the current window. SETNX makes the check and the mark one step.
func (v *ViewCounter) FirstView(ctx context.Context, questionID, viewer string) (bool, error) {
	ok, err := v.client.SetNX(ctx, key("views", questionID, viewer), "1", v.window).Result()
	if err != nil {
		return false, fmt.Errorf("view check: %w", err)
	}
	return ok, nil
}
