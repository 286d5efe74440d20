// Package policy implements the negotiation and fulfillment protocol:
// one policy per message kind, driving a demand from RFQ through quote,
// order, shipment, billing and payment on simulated time.
package policy

import (
	"sync"

	"github.com/trade-hub/trade-hub/internal/application/dispatch"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Actor bundles one trading actor's collaborators.
type Actor struct {
	ID         message.ActorID
	Store      message.Store
	Account    ledger.Account
	Stock      ledger.Stock
	Dispatcher *dispatch.Dispatcher
}

// Actors is the identity registry: it resolves an actor id to its store,
// account, stock and dispatcher. No protocol logic lives here.
type Actors struct {
	mu    sync.RWMutex
	byID  map[message.ActorID]*Actor
	order []message.ActorID
}

func NewActors() *Actors {
	return &Actors{byID: make(map[message.ActorID]*Actor)}
}

func (r *Actors) Add(a *Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, known := r.byID[a.ID]; !known {
		r.order = append(r.order, a.ID)
	}
	r.byID[a.ID] = a
}

func (r *Actors) Get(id message.ActorID) *Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

func (r *Actors) Store(id message.ActorID) message.Store {
	if a := r.Get(id); a != nil {
		return a.Store
	}
	return nil
}

func (r *Actors) Account(id message.ActorID) ledger.Account {
	if a := r.Get(id); a != nil {
		return a.Account
	}
	return nil
}

func (r *Actors) Stock(id message.ActorID) ledger.Stock {
	if a := r.Get(id); a != nil {
		return a.Stock
	}
	return nil
}

func (r *Actors) Dispatcher(id message.ActorID) *dispatch.Dispatcher {
	if a := r.Get(id); a != nil {
		return a.Dispatcher
	}
	return nil
}

// All returns the actors in registration order.
func (r *Actors) All() []*Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Actor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
