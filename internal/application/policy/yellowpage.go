package policy

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Directory answers supplier discovery queries. The lookup itself is a
// collaborator; the broker only relays it.
type Directory interface {
	Suppliers(product string) []message.ActorID
}

// StaticDirectory maps products to fixed supplier lists.
type StaticDirectory map[string][]message.ActorID

func (d StaticDirectory) Suppliers(product string) []message.ActorID {
	return d[product]
}

// YellowPagePolicy is the broker side: it answers a discovery request
// with the directory's candidate suppliers.
type YellowPagePolicy struct {
	actor     message.ActorID
	directory Directory
	courier   *Courier
	sched     clock.Scheduler
	handling  Delay
	rng       *rand.Rand
	logger    zerolog.Logger
}

func NewYellowPagePolicy(actor message.ActorID, directory Directory, courier *Courier, sched clock.Scheduler, handling Delay, rng *rand.Rand, logger zerolog.Logger) *YellowPagePolicy {
	return &YellowPagePolicy{
		actor:     actor,
		directory: directory,
		courier:   courier,
		sched:     sched,
		handling:  handling,
		rng:       rng,
		logger:    logger.With().Str("policy", "yellowpage").Str("actor", string(actor)).Logger(),
	}
}

func (*YellowPagePolicy) Kind() message.Kind { return message.KindYellowPageRequest }

func (p *YellowPagePolicy) Handle(m message.Message) bool {
	req, ok := m.(*message.YellowPageRequest)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a yellow-page request")
		return false
	}

	suppliers := p.directory.Suppliers(req.ProductName)
	p.sched.ScheduleAt(p.sched.Now().Add(p.handling.Draw(p.rng)), func() {
		p.courier.Send(message.NewYellowPageAnswer(req, suppliers, p.sched.Now()))
	})
	return true
}

// YellowPageAnswerPolicy is the buyer side: it fans one RFQ out to every
// returned candidate, all sharing one handling-delay draw.
type YellowPageAnswerPolicy struct {
	actor       message.ActorID
	store       message.Store
	courier     *Courier
	sched       clock.Scheduler
	handling    Delay
	rfqValidity time.Duration
	rng         *rand.Rand
	logger      zerolog.Logger
}

func NewYellowPageAnswerPolicy(actor message.ActorID, store message.Store, courier *Courier, sched clock.Scheduler, handling Delay, rfqValidity time.Duration, rng *rand.Rand, logger zerolog.Logger) *YellowPageAnswerPolicy {
	return &YellowPageAnswerPolicy{
		actor:       actor,
		store:       store,
		courier:     courier,
		sched:       sched,
		handling:    handling,
		rfqValidity: rfqValidity,
		rng:         rng,
		logger:      logger.With().Str("policy", "yellowpage_answer").Str("actor", string(actor)).Logger(),
	}
}

func (*YellowPageAnswerPolicy) Kind() message.Kind { return message.KindYellowPageAnswer }

func (p *YellowPageAnswerPolicy) Handle(m message.Message) bool {
	ans, ok := m.(*message.YellowPageAnswer)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a yellow-page answer")
		return false
	}

	demands := p.store.Query(ans.ChainID, message.KindDemand, message.AnyDirection)
	if len(demands) == 0 {
		p.logger.Warn().Str("chain", ans.ChainID.String()).Msg("no demand for yellow-page answer")
		return false
	}
	d, ok := demands[0].(*message.Demand)
	if !ok {
		return false
	}

	if len(ans.Suppliers) == 0 {
		p.logger.Info().Str("chain", ans.ChainID.String()).Msg("broker returned no suppliers, chain stalls")
		return true
	}

	p.sched.ScheduleAt(p.sched.Now().Add(p.handling.Draw(p.rng)), func() {
		now := p.sched.Now()
		cutoff := now.Add(p.rfqValidity)
		for _, supplier := range ans.Suppliers {
			p.courier.Send(message.NewRequestForQuote(d, supplier, cutoff, now))
		}
	})
	return true
}
