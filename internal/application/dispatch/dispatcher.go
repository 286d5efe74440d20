// Package dispatch routes each inbound message to the one policy
// responsible for its kind, after identity and content validation.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Policy reacts to one folded message kind. Handle reports whether it
// accepted and processed the message; callers must not assume side
// effects happened on false.
type Policy interface {
	Kind() message.Kind
	Handle(m message.Message) bool
}

type binding struct {
	policy   Policy
	products []string
	partners []message.ActorID
}

// BindOption restricts a registered policy.
type BindOption func(*binding)

// WithProducts limits the policy to an allow-list of products. Messages
// without a product always pass. Empty list accepts all.
func WithProducts(products ...string) BindOption {
	return func(b *binding) { b.products = products }
}

// WithPartners limits the policy to an allow-list of senders. Empty list
// accepts all.
func WithPartners(partners ...message.ActorID) BindOption {
	return func(b *binding) { b.partners = partners }
}

// Stats counts dispatch outcomes for observability.
type Stats struct {
	Accepted uint64            `json:"accepted"`
	Rejected uint64            `json:"rejected"`
	Refused  uint64            `json:"refused"`
	Reasons  map[string]uint64 `json:"reasons,omitempty"`
}

// Dispatcher owns one actor's inbound side: validation, store
// bookkeeping and policy invocation.
type Dispatcher struct {
	actor    message.ActorID
	store    message.Store
	logger   zerolog.Logger
	bindings map[message.Kind]*binding

	mu    sync.Mutex
	stats Stats
}

func New(actor message.ActorID, store message.Store, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		actor:    actor,
		store:    store,
		logger:   logger.With().Str("component", "dispatch").Str("actor", string(actor)).Logger(),
		bindings: make(map[message.Kind]*binding),
	}
}

// Register binds a policy to its folded kind. A second policy for the
// same kind is a configuration error.
func (d *Dispatcher) Register(p Policy, opts ...BindOption) error {
	k := p.Kind().Fold()
	if _, dup := d.bindings[k]; dup {
		return fmt.Errorf("policy for kind %q already registered on %s", k, d.actor)
	}
	b := &binding{policy: p}
	for _, opt := range opts {
		opt(b)
	}
	d.bindings[k] = b
	return nil
}

// Dispatch validates m, records it as received and hands it to the bound
// policy. Validation failures are counted and logged, never raised.
func (d *Dispatcher) Dispatch(m message.Message) bool {
	k := m.Kind().Fold()
	b, ok := d.bindings[k]
	if !ok {
		d.reject(m, "no policy for kind")
		return false
	}
	if reason, ok := d.validate(m, b); !ok {
		d.reject(m, reason)
		return false
	}

	d.store.Record(m, message.Received)

	handled := b.policy.Handle(m)
	d.mu.Lock()
	if handled {
		d.stats.Accepted++
	} else {
		d.stats.Refused++
	}
	d.mu.Unlock()
	return handled
}

// validate applies the four checks: kind assignability, receiver
// identity, product allow-list, partner allow-list.
func (d *Dispatcher) validate(m message.Message, b *binding) (string, bool) {
	if m.Kind().Fold() != b.policy.Kind().Fold() {
		return "kind not handled by policy", false
	}
	if m.Env().Receiver != d.actor {
		return "receiver is another actor", false
	}
	if p := m.Product(); p != "" && len(b.products) > 0 && !lo.Contains(b.products, p) {
		return "product not allowed", false
	}
	if len(b.partners) > 0 && !lo.Contains(b.partners, m.Env().Sender) {
		return "sender not a partner", false
	}
	return "", true
}

func (d *Dispatcher) reject(m message.Message, reason string) {
	d.mu.Lock()
	d.stats.Rejected++
	if d.stats.Reasons == nil {
		d.stats.Reasons = make(map[string]uint64)
	}
	d.stats.Reasons[reason]++
	d.mu.Unlock()

	d.logger.Warn().
		Str("kind", string(m.Kind())).
		Str("sender", string(m.Env().Sender)).
		Str("reason", reason).
		Msg("message rejected")
}

// Stats returns a copy of the dispatch counters.
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.stats
	out.Reasons = lo.Assign(map[string]uint64{}, d.stats.Reasons)
	if len(out.Reasons) == 0 {
		out.Reasons = nil
	}
	return out
}

// Actor returns the owning actor id.
func (d *Dispatcher) Actor() message.ActorID { return d.actor }
