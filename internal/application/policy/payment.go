package policy

import (
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/application/penalty"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// PaymentPolicy is the seller side of settlement: credit the account,
// mark the bill paid, fine late payers, close the chain.
type PaymentPolicy struct {
	actor    message.ActorID
	store    message.Store
	account  ledger.Account
	sched    clock.Scheduler
	enforcer *penalty.Enforcer
	logger   zerolog.Logger
}

func NewPaymentPolicy(actor message.ActorID, store message.Store, account ledger.Account, sched clock.Scheduler, enforcer *penalty.Enforcer, logger zerolog.Logger) *PaymentPolicy {
	return &PaymentPolicy{
		actor:    actor,
		store:    store,
		account:  account,
		sched:    sched,
		enforcer: enforcer,
		logger:   logger.With().Str("policy", "payment").Str("actor", string(actor)).Logger(),
	}
}

func (*PaymentPolicy) Kind() message.Kind { return message.KindPayment }

func (p *PaymentPolicy) Handle(m message.Message) bool {
	pay, ok := m.(*message.Payment)
	if !ok {
		p.logger.Warn().Str("kind", string(m.Kind())).Msg("not a payment")
		return false
	}

	p.account.Credit(pay.Amount)

	bill := p.findBill(pay)
	if bill == nil {
		p.logger.Warn().Str("chain", pay.ChainID.String()).Msg("no bill for payment, credit kept")
		return true
	}

	wasPaid := bill.Paid
	bill.Paid = true

	now := p.sched.Now()
	if !wasPaid && p.enforcer != nil && now.After(bill.DueDate) {
		p.enforcer.AssessLatePayment(pay, bill, now)
	}

	p.store.CloseChain(pay.ChainID)
	return true
}

// findBill resolves the settled bill by id. The payment's arrival pruned
// the bill from the sent partition already, so the lookup goes through
// the chain index.
func (p *PaymentPolicy) findBill(pay *message.Payment) *message.Bill {
	for _, m := range p.store.Query(pay.ChainID, message.KindBill, message.AnyDirection) {
		if b, ok := m.(*message.Bill); ok && b.ID == pay.BillID {
			return b
		}
	}
	return nil
}
