// Package chain defines the demand-chain lifecycle events that stores emit
// and observability layers subscribe to.
package chain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	Opened  EventType = "chainOpened"
	Closed  EventType = "chainClosed"
	Expired EventType = "chainExpired"
)

// Event marks a lifecycle transition of one demand chain as seen by one
// actor's store.
type Event struct {
	ChainID uuid.UUID `json:"chainId"`
	Actor   string    `json:"actor"`
	Type    EventType `json:"type"`
	At      time.Time `json:"at"`
}

// Publisher receives lifecycle events. Publish must not block.
type Publisher interface {
	Publish(e Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(Event) {}
