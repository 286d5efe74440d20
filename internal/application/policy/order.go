package policy

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/application/penalty"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// OrderConfig shapes order acceptance and fulfillment.
type OrderConfig struct {
	Handling Delay
	// RequireStock rejects orders the unclaimed stock cannot cover.
	RequireStock bool
	// AcceptExpr, when set, is a govaluate expression over product,
	// quantity and price that must evaluate true for acceptance.
	AcceptExpr string
	// PaymentTerm sets each bill's due date relative to billing time.
	PaymentTerm time.Duration
}

// OrderPolicy is the supplier side of fulfillment: confirm or reject,
// claim stock, ship when the goods are there, bill after transit.
type OrderPolicy struct {
	actor     message.ActorID
	cfg       OrderConfig
	stock     ledger.Stock
	transport ledger.Transport
	courier   *Courier
	sched     clock.Scheduler
	enforcer  *penalty.Enforcer
	rng       *rand.Rand
	logger    zerolog.Logger

	shipRetries atomic.Uint64
}

func NewOrderPolicy(actor message.ActorID, cfg OrderConfig, stock ledger.Stock, transport ledger.Transport, courier *Courier, sched clock.Scheduler, enforcer *penalty.Enforcer, rng *rand.Rand, logger zerolog.Logger) *OrderPolicy {
	return &OrderPolicy{
		actor:     actor,
		cfg:       cfg,
		stock:     stock,
		transport: transport,
		courier:   courier,
		sched:     sched,
		enforcer:  enforcer,
		rng:       rng,
		logger:    logger.With().Str("policy", "order").Str("actor", string(actor)).Logger(),
	}
}

func (*OrderPolicy) Kind() message.Kind { return message.KindOrder }

// ShipRetries counts postponed ship attempts, for observability.
func (p *OrderPolicy) ShipRetries() uint64 { return p.shipRetries.Load() }

func (p *OrderPolicy) Handle(m message.Message) bool {
	o, ok := m.(message.Order)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not an order")
		return false
	}

	accepted := p.accepts(o)
	p.sched.ScheduleAt(p.sched.Now().Add(p.cfg.Handling.Draw(p.rng)), func() {
		p.courier.Send(message.NewConfirmation(o, accepted, p.sched.Now()))
	})
	if !accepted {
		p.logger.Info().
			Str("chain", o.Env().ChainID.String()).
			Int("quantity", o.OrderedQuantity()).
			Msg("order rejected")
		return true
	}

	p.stock.Reserve(o.Product(), o.OrderedQuantity())
	transit := p.transport.TransitTime(p.actor, o.Env().Sender, o.TransportOption())
	shipAt := o.DeliveryDate().Add(-transit)
	if shipAt.Before(p.sched.Now()) {
		shipAt = p.sched.Now()
	}
	p.sched.ScheduleAt(shipAt, func() { p.ship(o) })
	return true
}

func (p *OrderPolicy) accepts(o message.Order) bool {
	if p.cfg.RequireStock {
		unclaimed := p.stock.Available(o.Product()) - p.stock.Reserved(o.Product())
		if unclaimed < o.OrderedQuantity() {
			return false
		}
	}
	if p.cfg.AcceptExpr == "" {
		return true
	}

	expr, err := govaluate.NewEvaluableExpression(p.cfg.AcceptExpr)
	if err != nil {
		p.logger.Warn().Err(err).Str("expr", p.cfg.AcceptExpr).Msg("bad acceptance expression, rejecting")
		return false
	}
	result, err := expr.Evaluate(map[string]interface{}{
		"product":  o.Product(),
		"quantity": float64(o.OrderedQuantity()),
		"price":    o.OrderPrice(),
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("expr", p.cfg.AcceptExpr).Msg("acceptance expression failed, rejecting")
		return false
	}
	ok, isBool := result.(bool)
	return isBool && ok
}

// ship attempts fulfillment. Short stock postpones the same check by one
// simulated day; the claim stays in place meanwhile.
func (p *OrderPolicy) ship(o message.Order) {
	now := p.sched.Now()
	product, qty := o.Product(), o.OrderedQuantity()

	if p.stock.Available(product) < qty {
		p.shipRetries.Add(1)
		p.logger.Debug().
			Str("chain", o.Env().ChainID.String()).
			Int("short", qty-p.stock.Available(product)).
			Msg("stock short, ship retried tomorrow")
		p.sched.ScheduleAt(now.Add(clock.Day), func() { p.ship(o) })
		return
	}

	p.stock.Release(product, qty)
	p.stock.Remove(product, qty)

	p.courier.Send(message.NewShipment(o, qty, o.OrderPrice(), now))

	transit := p.transport.TransitTime(p.actor, o.Env().Sender, o.TransportOption())
	p.sched.ScheduleAt(now.Add(transit), func() {
		billedAt := p.sched.Now()
		bill := message.NewBill(o, o.OrderPrice(), billedAt.Add(p.cfg.PaymentTerm), billedAt)
		if p.enforcer != nil {
			p.enforcer.WatchBill(bill)
		}
		p.courier.Send(bill)
	})
}
