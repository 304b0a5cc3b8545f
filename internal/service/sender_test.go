package service

import (
	"sync"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/event"
)

// fakeSender records intents instead of writing them to a socket.
type fakeSender struct {
	mu   sync.Mutex
	open bool
	sent []event.Intent
	err  error
}

func (f *fakeSender) Send(in event.Intent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return domain.NewValidationError("connection", domain.ErrNotConnected)
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, in)
	return nil
}

func (f *fakeSender) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeSender) Sent() []event.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]event.Intent(nil), f.sent...)
}
