package policy

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// PaymentTiming selects when a buyer settles a bill.
type PaymentTiming string

const (
	PayOnTime    PaymentTiming = "ontime"
	PayEarly     PaymentTiming = "early"
	PayLate      PaymentTiming = "late"
	PayImmediate PaymentTiming = "immediate"
)

// BillConfig shapes the buyer's payment behavior. Slack is the drawn
// offset applied before (early) or after (late) the due date.
type BillConfig struct {
	Timing PaymentTiming
	Slack  Delay
}

// BillPolicy is the buyer side of billing: schedule the payment per the
// configured timing, retry daily while the balance falls short.
type BillPolicy struct {
	actor   message.ActorID
	cfg     BillConfig
	store   message.Store
	account ledger.Account
	courier *Courier
	sched   clock.Scheduler
	rng     *rand.Rand
	logger  zerolog.Logger
}

func NewBillPolicy(actor message.ActorID, cfg BillConfig, store message.Store, account ledger.Account, courier *Courier, sched clock.Scheduler, rng *rand.Rand, logger zerolog.Logger) *BillPolicy {
	return &BillPolicy{
		actor:   actor,
		cfg:     cfg,
		store:   store,
		account: account,
		courier: courier,
		sched:   sched,
		rng:     rng,
		logger:  logger.With().Str("policy", "bill").Str("actor", string(actor)).Logger(),
	}
}

func (*BillPolicy) Kind() message.Kind { return message.KindBill }

func (p *BillPolicy) Handle(m message.Message) bool {
	b, ok := m.(*message.Bill)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a bill")
		return false
	}

	now := p.sched.Now()
	payAt := b.DueDate
	switch p.cfg.Timing {
	case PayEarly:
		payAt = b.DueDate.Add(-p.cfg.Slack.Draw(p.rng))
	case PayLate:
		payAt = b.DueDate.Add(p.cfg.Slack.Draw(p.rng))
	case PayImmediate:
		payAt = now
	}
	if payAt.Before(now) {
		payAt = now
	}

	p.sched.ScheduleAt(payAt, func() { p.pay(b) })
	return true
}

// pay settles the bill, or retries in one simulated day when the balance
// falls short. A bill already settled (by the forced-payment watchdog)
// only closes the chain.
func (p *BillPolicy) pay(b *message.Bill) {
	if b.Paid {
		p.store.CloseChain(b.ChainID)
		return
	}
	now := p.sched.Now()

	if p.account.Balance() < b.Amount {
		p.logger.Debug().
			Str("chain", b.ChainID.String()).
			Float64("balance", p.account.Balance()).
			Float64("due", b.Amount).
			Msg("balance short, payment retried tomorrow")
		p.sched.ScheduleAt(now.Add(clock.Day), func() { p.pay(b) })
		return
	}

	p.account.Debit(b.Amount)
	p.courier.Send(message.NewPayment(b, b.Amount, now))
	p.store.CloseChain(b.ChainID)
}
