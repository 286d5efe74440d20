package policy

import (
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/application/penalty"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// ConfirmationPolicy is the buyer side of order confirmation. Acceptance
// arms the delivery watchdog; rejection closes the chain and re-emits an
// identical demand under a fresh chain id, which is the protocol's retry
// for commercial refusal.
type ConfirmationPolicy struct {
	actor    message.ActorID
	store    message.Store
	courier  *Courier
	sched    clock.Scheduler
	enforcer *penalty.Enforcer
	logger   zerolog.Logger
}

func NewConfirmationPolicy(actor message.ActorID, store message.Store, courier *Courier, sched clock.Scheduler, enforcer *penalty.Enforcer, logger zerolog.Logger) *ConfirmationPolicy {
	return &ConfirmationPolicy{
		actor:    actor,
		store:    store,
		courier:  courier,
		sched:    sched,
		enforcer: enforcer,
		logger:   logger.With().Str("policy", "confirmation").Str("actor", string(actor)).Logger(),
	}
}

func (*ConfirmationPolicy) Kind() message.Kind { return message.KindConfirmation }

func (p *ConfirmationPolicy) Handle(m message.Message) bool {
	c, ok := m.(*message.Confirmation)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a confirmation")
		return false
	}

	if c.Accepted {
		order := p.findOrder(c)
		if order == nil {
			p.logger.Warn().Str("chain", c.ChainID.String()).Msg("no order for accepted confirmation")
			return true
		}
		if p.enforcer != nil {
			p.enforcer.WatchDelivery(order)
		}
		return true
	}

	demands := p.store.Query(c.ChainID, message.KindDemand, message.AnyDirection)
	p.store.CloseChain(c.ChainID)
	if len(demands) == 0 {
		p.logger.Warn().Str("chain", c.ChainID.String()).Msg("no demand behind rejected order")
		return true
	}
	d, ok := demands[0].(*message.Demand)
	if !ok {
		return true
	}

	fresh := message.NewDemand(p.actor, d.ProductName, d.Quantity, d.EarliestDelivery, d.LatestDelivery, p.sched.Now())
	p.logger.Info().
		Str("closedChain", c.ChainID.String()).
		Str("newChain", fresh.ChainID.String()).
		Msg("order rejected, demand re-issued")
	p.courier.Send(fresh)
	return true
}

func (p *ConfirmationPolicy) findOrder(c *message.Confirmation) message.Order {
	for _, m := range p.store.Query(c.ChainID, message.KindOrder, message.Sent) {
		o, ok := m.(message.Order)
		if !ok {
			continue
		}
		if o.Env().ID == c.OrderID {
			return o
		}
	}
	return nil
}
