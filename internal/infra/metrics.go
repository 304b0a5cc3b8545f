package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Wire counters
	framesReceived atomic.Uint64
	framesSent     atomic.Uint64
	protocolErrors atomic.Uint64
	actionPanics   atomic.Uint64

	// Order flow
	validationRejections atomic.Uint64
	ordersSent           atomic.Uint64
	ordersAccepted       atomic.Uint64
	ordersRejected       atomic.Uint64

	// Ping round trip
	lastRTTNs atomic.Int64

	// Gauges
	activeConnections atomic.Int32
}

// NewMetrics returns a zeroed metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordFrameReceived counts one inbound frame.
func (m *Metrics) RecordFrameReceived() {
	m.framesReceived.Add(1)
}

// RecordFrameSent counts one outbound frame.
func (m *Metrics) RecordFrameSent() {
	m.framesSent.Add(1)
}

// RecordProtocolError counts a frame that could not be decoded or handled.
func (m *Metrics) RecordProtocolError() {
	m.protocolErrors.Add(1)
}

// RecordActionPanic counts a UI action that panicked.
func (m *Metrics) RecordActionPanic() {
	m.actionPanics.Add(1)
}

// RecordValidationRejection counts a locally refused action.
func (m *Metrics) RecordValidationRejection() {
	m.validationRejections.Add(1)
}

// RecordOrderSent counts a transmitted order.
func (m *Metrics) RecordOrderSent() {
	m.ordersSent.Add(1)
}

// RecordOrderAccepted counts an ORDER_ACCEPTED acknowledgment.
func (m *Metrics) RecordOrderAccepted() {
	m.ordersAccepted.Add(1)
}

// RecordOrderRejected counts an ORDER_REJECT acknowledgment.
func (m *Metrics) RecordOrderRejected() {
	m.ordersRejected.Add(1)
}

// RecordRTT stores the latest ping round trip.
func (m *Metrics) RecordRTT(rtt time.Duration) {
	m.lastRTTNs.Store(int64(rtt))
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	FramesReceived       uint64
	FramesSent           uint64
	ProtocolErrors       uint64
	ActionPanics         uint64
	ValidationRejections uint64
	OrdersSent           uint64
	OrdersAccepted       uint64
	OrdersRejected       uint64
	LastRTT              time.Duration
	ActiveConnections    int32
	Timestamp            time.Time
}

// PendingOrders is the number of sent orders still awaiting an acknowledgment.
func (s MetricsSnapshot) PendingOrders() int64 {
	return int64(s.OrdersSent) - int64(s.OrdersAccepted) - int64(s.OrdersRejected)
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		FramesReceived:       m.framesReceived.Load(),
		FramesSent:           m.framesSent.Load(),
		ProtocolErrors:       m.protocolErrors.Load(),
		ActionPanics:         m.actionPanics.Load(),
		ValidationRejections: m.validationRejections.Load(),
		OrdersSent:           m.ordersSent.Load(),
		OrdersAccepted:       m.ordersAccepted.Load(),
		OrdersRejected:       m.ordersRejected.Load(),
		LastRTT:              time.Duration(m.lastRTTNs.Load()),
		ActiveConnections:    m.activeConnections.Load(),
		Timestamp:            time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.framesReceived.Store(0)
	m.framesSent.Store(0)
	m.protocolErrors.Store(0)
	m.actionPanics.Store(0)
	m.validationRejections.Store(0)
	m.ordersSent.Store(0)
	m.ordersAccepted.Store(0)
	m.ordersRejected.Store(0)
	m.lastRTTNs.Store(0)
	m.activeConnections.Store(0)
}
