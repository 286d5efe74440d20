package policy

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// DemandMode selects how a demand turns into outbound trade messages.
type DemandMode string

const (
	// DemandDirect orders straight from one configured supplier.
	DemandDirect DemandMode = "direct"
	// DemandBroadcast sends one RFQ to each configured supplier.
	DemandBroadcast DemandMode = "broadcast"
	// DemandYellowPages asks a broker for candidate suppliers first.
	DemandYellowPages DemandMode = "yellowpages"
)

// DemandConfig shapes the demand reaction.
type DemandConfig struct {
	Mode      DemandMode
	Supplier  message.ActorID   // direct mode
	Suppliers []message.ActorID // broadcast mode
	Broker    message.ActorID   // yellow-pages mode
	Handling  Delay
	// RFQValidity bounds how long emitted RFQs stay open.
	RFQValidity time.Duration
	Transport   message.TransportOption
	// TrackOnOrder maintains the amount-on-order counter for
	// replenishing buyers.
	TrackOnOrder bool
}

// DemandPolicy reacts to the actor's own internal demand, opening the
// negotiation. All fan-out messages of one demand share a single
// handling-delay draw.
type DemandPolicy struct {
	actor   message.ActorID
	cfg     DemandConfig
	courier *Courier
	sched   clock.Scheduler
	stock   ledger.Stock
	rng     *rand.Rand
	logger  zerolog.Logger
}

func NewDemandPolicy(actor message.ActorID, cfg DemandConfig, courier *Courier, sched clock.Scheduler, stock ledger.Stock, rng *rand.Rand, logger zerolog.Logger) *DemandPolicy {
	return &DemandPolicy{
		actor:   actor,
		cfg:     cfg,
		courier: courier,
		sched:   sched,
		stock:   stock,
		rng:     rng,
		logger:  logger.With().Str("policy", "demand").Str("actor", string(actor)).Logger(),
	}
}

func (*DemandPolicy) Kind() message.Kind { return message.KindDemand }

func (p *DemandPolicy) Handle(m message.Message) bool {
	d, ok := m.(*message.Demand)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a demand")
		return false
	}

	if p.cfg.TrackOnOrder && p.stock != nil {
		p.stock.AddOnOrder(d.ProductName, d.Quantity)
	}

	at := p.sched.Now().Add(p.cfg.Handling.Draw(p.rng))
	switch p.cfg.Mode {
	case DemandDirect:
		p.sched.ScheduleAt(at, func() {
			now := p.sched.Now()
			unit := 0.0
			if p.stock != nil {
				unit = p.stock.UnitPrice(d.ProductName)
			}
			delivery := d.EarliestDelivery
			if delivery.Before(now) {
				delivery = now
			}
			p.courier.Send(message.NewDirectOrder(d, p.cfg.Supplier, unit, delivery, p.cfg.Transport, now))
		})
	case DemandBroadcast:
		p.sched.ScheduleAt(at, func() {
			now := p.sched.Now()
			cutoff := now.Add(p.cfg.RFQValidity)
			for _, supplier := range p.cfg.Suppliers {
				p.courier.Send(message.NewRequestForQuote(d, supplier, cutoff, now))
			}
		})
	case DemandYellowPages:
		p.sched.ScheduleAt(at, func() {
			p.courier.Send(message.NewYellowPageRequest(d, p.cfg.Broker, p.sched.Now()))
		})
	default:
		p.logger.Warn().Str("mode", string(p.cfg.Mode)).Msg("unknown demand mode")
		return false
	}
	return true
}
