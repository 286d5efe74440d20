package policy

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// RFQConfig shapes the supplier's quoting.
type RFQConfig struct {
	// ProfitMargin marks the stock unit price up.
	ProfitMargin  float64
	QuoteValidity time.Duration
	Handling      Delay
	Transport     message.TransportOption
}

// RFQPolicy is the supplier side of quoting: price the request, propose a
// ship date, reply with one quote.
type RFQPolicy struct {
	actor     message.ActorID
	cfg       RFQConfig
	stock     ledger.Stock
	transport ledger.Transport
	courier   *Courier
	sched     clock.Scheduler
	rng       *rand.Rand
	logger    zerolog.Logger
}

func NewRFQPolicy(actor message.ActorID, cfg RFQConfig, stock ledger.Stock, transport ledger.Transport, courier *Courier, sched clock.Scheduler, rng *rand.Rand, logger zerolog.Logger) *RFQPolicy {
	return &RFQPolicy{
		actor:     actor,
		cfg:       cfg,
		stock:     stock,
		transport: transport,
		courier:   courier,
		sched:     sched,
		rng:       rng,
		logger:    logger.With().Str("policy", "rfq").Str("actor", string(actor)).Logger(),
	}
}

func (*RFQPolicy) Kind() message.Kind { return message.KindRequestForQuote }

func (p *RFQPolicy) Handle(m message.Message) bool {
	rfq, ok := m.(*message.RequestForQuote)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not an rfq")
		return false
	}
	if rfq.Quantity <= 0 {
		p.logger.Warn().Str("chain", rfq.ChainID.String()).Msg("rfq for nothing, ignored")
		return false
	}

	p.sched.ScheduleAt(p.sched.Now().Add(p.cfg.Handling.Draw(p.rng)), func() {
		now := p.sched.Now()
		buyer := rfq.Sender
		qty := rfq.Quantity

		total := float64(qty)*p.stock.UnitPrice(rfq.ProductName)*(1+p.cfg.ProfitMargin) +
			p.transport.Cost(p.actor, buyer, p.cfg.Transport, qty)
		unit := total / float64(qty)

		transit := p.transport.TransitTime(p.actor, buyer, p.cfg.Transport)
		ship := rfq.EarliestDelivery.Add(-transit)
		if ship.Before(now) {
			ship = now
		}

		p.courier.Send(message.NewQuote(rfq, qty, unit, ship, p.cfg.Transport, now.Add(p.cfg.QuoteValidity), now))
	})
	return true
}
