package policy

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/application/selection"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// QuoteMode selects when the buyer commits.
type QuoteMode string

const (
	// AllQuotes waits for every outstanding RFQ to be answered, then
	// picks the best quote.
	AllQuotes QuoteMode = "all"
	// FirstValid commits to the first acceptable quote.
	FirstValid QuoteMode = "first"
)

// QuotePolicy is the buyer side of quoting: aggregate competing quotes
// for the chain, pick a winner, order. No acceptable quote means the
// chain stalls until its own expiry.
type QuotePolicy struct {
	actor     message.ActorID
	mode      QuoteMode
	eval      *selection.Evaluator
	store     message.Store
	stock     ledger.Stock
	transport ledger.Transport
	courier   *Courier
	sched     clock.Scheduler
	handling  Delay
	rng       *rand.Rand
	logger    zerolog.Logger
}

func NewQuotePolicy(actor message.ActorID, mode QuoteMode, eval *selection.Evaluator, store message.Store, stock ledger.Stock, transport ledger.Transport, courier *Courier, sched clock.Scheduler, handling Delay, rng *rand.Rand, logger zerolog.Logger) *QuotePolicy {
	return &QuotePolicy{
		actor:     actor,
		mode:      mode,
		eval:      eval,
		store:     store,
		stock:     stock,
		transport: transport,
		courier:   courier,
		sched:     sched,
		handling:  handling,
		rng:       rng,
		logger:    logger.With().Str("policy", "quote").Str("actor", string(actor)).Logger(),
	}
}

func (*QuotePolicy) Kind() message.Kind { return message.KindQuote }

func (p *QuotePolicy) Handle(m message.Message) bool {
	q, ok := m.(*message.Quote)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a quote")
		return false
	}
	chainID := q.ChainID

	if len(p.store.Query(chainID, message.KindOrder, message.Sent)) > 0 {
		// Already committed; late quote.
		return true
	}

	demands := p.store.Query(chainID, message.KindDemand, message.AnyDirection)
	if len(demands) == 0 {
		p.logger.Warn().Str("chain", chainID.String()).Msg("no demand for quote")
		return false
	}
	demand, ok := demands[0].(*message.Demand)
	if !ok {
		return false
	}

	refPrice := 0.0
	if p.stock != nil {
		refPrice = p.stock.UnitPrice(q.ProductName)
	}
	now := p.sched.Now()

	var best *message.Quote
	switch p.mode {
	case FirstValid:
		if !p.eval.Acceptable(q, demand, refPrice, now) {
			return true
		}
		best = q
	default:
		quotes := collectQuotes(p.store.Query(chainID, message.KindQuote, message.Received))
		// Every request still indexed without an answering quote is an
		// open solicitation; wait until none are left. Expired requests
		// drop out of the sent partition and stop blocking.
		answered := make(map[uuid.UUID]bool, len(quotes))
		for _, have := range quotes {
			answered[have.Answers()] = true
		}
		for _, open := range p.store.Query(chainID, message.KindRequestForQuote, message.Sent) {
			if !answered[open.Env().ID] {
				return true
			}
		}
		winner, ok := p.eval.Best(quotes, demand, refPrice, now)
		if !ok {
			p.logger.Info().Str("chain", chainID.String()).Msg("no acceptable quote, chain stalls")
			return true
		}
		best = winner
	}

	p.sched.ScheduleAt(now.Add(p.handling.Draw(p.rng)), func() {
		if len(p.store.Query(chainID, message.KindOrder, message.Sent)) > 0 {
			return
		}
		sendAt := p.sched.Now()
		transit := p.transport.TransitTime(best.Sender, p.actor, best.Transport)
		delivery := best.ShipDate.Add(transit)
		p.courier.Send(message.NewOrderFromQuote(best, delivery, sendAt))
	})
	return true
}

func collectQuotes(msgs []message.Message) []*message.Quote {
	out := make([]*message.Quote, 0, len(msgs))
	for _, m := range msgs {
		if q, ok := m.(*message.Quote); ok {
			out = append(out, q)
		}
	}
	return out
}
