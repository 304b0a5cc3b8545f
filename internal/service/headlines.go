package service

import (
	"context"
	"sync"
	"time"
)

// Headlines rotates ticker headlines on a fixed period. It has no link to
// the market state.
type Headlines struct {
	items    []string
	interval time.Duration
	publish  func(string)

	mu    sync.Mutex
	index int
}

// NewHeadlines creates a rotation over items. publish receives each headline.
func NewHeadlines(items []string, interval time.Duration, publish func(string)) *Headlines {
	return &Headlines{
		items:    append([]string(nil), items...),
		interval: interval,
		publish:  publish,
	}
}

// Next returns the next headline and advances the rotation.
func (h *Headlines) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.items) == 0 {
		return "", false
	}
	item := h.items[h.index]
	h.index = (h.index + 1) % len(h.items)
	return item, true
}

// Run publishes the first headline immediately, then one per interval
// until ctx is cancelled.
func (h *Headlines) Run(ctx context.Context) {
	if len(h.items) == 0 || h.interval <= 0 || h.publish == nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if item, ok := h.Next(); ok {
			h.publish(item)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
