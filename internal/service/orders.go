package service

import (
	"log/slog"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/event"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra"
)

// OrderDispatcher validates and transmits market orders and turns their
// acknowledgments into notices. Acks carry no id, so they are reported in
// arrival order without matching them to a submission.
type OrderDispatcher struct {
	sender  Sender
	metrics *infra.Metrics
}

// NewOrderDispatcher creates a dispatcher writing to sender.
func NewOrderDispatcher(sender Sender, metrics *infra.Metrics) *OrderDispatcher {
	if metrics == nil {
		metrics = infra.NewMetrics()
	}
	return &OrderDispatcher{sender: sender, metrics: metrics}
}

// Submit sends one order. Nothing is transmitted when the link is not open
// or the intent is invalid.
func (d *OrderDispatcher) Submit(o domain.OrderIntent) error {
	if !d.sender.IsOpen() {
		return d.reject(o, domain.NewValidationError("connection", domain.ErrNotConnected))
	}
	if err := o.Validate(); err != nil {
		return d.reject(o, err)
	}

	if err := d.sender.Send(event.Order{Asset: o.Asset, Side: o.Side, Qty: o.Qty}); err != nil {
		return err
	}

	d.metrics.RecordOrderSent()
	slog.Info("Order sent",
		slog.String("asset", o.Asset),
		slog.String("side", string(o.Side)),
		slog.Int("qty", o.Qty),
	)
	return nil
}

func (d *OrderDispatcher) reject(o domain.OrderIntent, err error) error {
	d.metrics.RecordValidationRejection()
	slog.Warn("Order rejected locally",
		slog.String("asset", o.Asset),
		slog.Int("qty", o.Qty),
		slog.Any("error", err),
	)
	return err
}

// HandleAccepted reports an executed order.
func (d *OrderDispatcher) HandleAccepted(e *event.OrderAccepted) domain.Notice {
	d.metrics.RecordOrderAccepted()
	slog.Info("Order accepted", slog.String("fill", e.OrderFill.String()))
	return domain.NewNotice(domain.NoticeAccepted, e.OrderFill.String())
}

// HandleRejected reports a server refusal. The reason is kept verbatim.
func (d *OrderDispatcher) HandleRejected(e *event.OrderReject) domain.Notice {
	d.metrics.RecordOrderRejected()
	n := domain.NewRejectionNotice(e.Reason)
	slog.Warn("Order rejected by server", slog.Any("error", n.Err))
	return n
}
