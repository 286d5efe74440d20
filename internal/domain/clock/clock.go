// Package clock defines the simulated-time scheduling contract the trade
// core consumes. The discrete-event queue itself lives in infrastructure.
package clock

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_scheduler.go -package=mocks . Scheduler

import "time"

// Day is the fixed retry backoff unit of the protocol.
const Day = 24 * time.Hour

// Token identifies a pending callback for cancellation. The zero Token is
// never issued, so it is always safe to Cancel.
type Token uint64

// Scheduler fires callbacks in non-decreasing timestamp order, FIFO among
// equal timestamps. Cancel is a no-op for already-fired or already-cancelled
// tokens.
type Scheduler interface {
	ScheduleAt(t time.Time, fn func()) Token
	Cancel(tok Token)
	Now() time.Time
}
