// Package penalty enforces protocol deadlines with fines and forced
// payments. Absence of the expected message is the normal trigger, not an
// error; every action is one-shot and checked against current state
// before it fires.
package penalty

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Accounts resolves an actor's account.
type Accounts interface {
	Account(id message.ActorID) ledger.Account
}

// Stores resolves an actor's message store.
type Stores interface {
	Store(id message.ActorID) message.Store
}

// Sender delivers a message the enforcer emits on an actor's behalf.
type Sender interface {
	Send(m message.Message)
}

// Config sets the fine arithmetic and grace windows.
type Config struct {
	FineFixed float64
	// DeliveryFineMargin scales with the order price.
	DeliveryFineMargin float64
	// PaymentFineMarginPerDay scales with the payment amount and the days
	// the payment ran late.
	PaymentFineMarginPerDay float64
	DeliveryGrace           time.Duration
	BillGrace               time.Duration
}

// Enforcer schedules and applies the three penalty policies.
type Enforcer struct {
	cfg      Config
	sched    clock.Scheduler
	accounts Accounts
	stores   Stores
	sender   Sender
	logger   zerolog.Logger
}

func New(cfg Config, sched clock.Scheduler, accounts Accounts, stores Stores, sender Sender, logger zerolog.Logger) *Enforcer {
	return &Enforcer{
		cfg:      cfg,
		sched:    sched,
		accounts: accounts,
		stores:   stores,
		sender:   sender,
		logger:   logger.With().Str("component", "penalty").Logger(),
	}
}

// WatchDelivery arms the delivery fine for an accepted order: at the
// promised date plus grace, no recorded shipment means the seller owes
// the buyer fixed + margin * order price.
func (e *Enforcer) WatchDelivery(o message.Order) clock.Token {
	env := o.Env()
	buyer, seller := env.Sender, env.Receiver
	due := o.DeliveryDate().Add(e.cfg.DeliveryGrace)

	return e.sched.ScheduleAt(due, func() {
		store := e.stores.Store(buyer)
		if store == nil {
			return
		}
		if len(store.Query(env.ChainID, message.KindShipment, message.Received)) > 0 {
			return
		}
		// A chain settled and closed before the watchdog fired leaves no
		// order behind; that is fulfillment, not a missed delivery.
		if len(store.Query(env.ChainID, message.KindOrder, message.Sent)) == 0 {
			return
		}
		fine := e.cfg.FineFixed + e.cfg.DeliveryFineMargin*o.OrderPrice()
		e.transfer(seller, buyer, fine)
		e.logger.Info().
			Str("chain", env.ChainID.String()).
			Str("seller", string(seller)).
			Float64("fine", fine).
			Msg("delivery fine applied")
	})
}

// AssessLatePayment fines the payer when a payment arrives after its
// bill's due date: fixed + margin * amount * days late.
func (e *Enforcer) AssessLatePayment(p *message.Payment, b *message.Bill, now time.Time) {
	late := now.Sub(b.DueDate)
	if late <= 0 {
		return
	}
	days := math.Ceil(late.Hours() / 24)
	fine := e.cfg.FineFixed + e.cfg.PaymentFineMarginPerDay*p.Amount*days
	e.transfer(p.Sender, p.Receiver, fine)
	e.logger.Info().
		Str("chain", p.ChainID.String()).
		Str("payer", string(p.Sender)).
		Float64("daysLate", days).
		Float64("fine", fine).
		Msg("late payment fine applied")
}

// WatchBill arms the forced payment: past due date plus grace an unpaid
// bill is settled by the system itself, bypassing the buyer's payment
// policy. The debit happens here; the credit happens where it always
// does, when the Payment emitted on the buyer's behalf reaches the
// seller.
func (e *Enforcer) WatchBill(b *message.Bill) clock.Token {
	due := b.DueDate.Add(e.cfg.BillGrace)
	return e.sched.ScheduleAt(due, func() {
		if b.Paid {
			return
		}
		buyer := b.Receiver
		if debtor := e.accounts.Account(buyer); debtor != nil {
			debtor.ForceDebit(b.Amount)
		}
		e.logger.Info().
			Str("chain", b.ChainID.String()).
			Str("buyer", string(buyer)).
			Float64("amount", b.Amount).
			Msg("forced payment applied")
		e.sender.Send(message.NewPayment(b, b.Amount, e.sched.Now()))
	})
}

func (e *Enforcer) transfer(from, to message.ActorID, amount float64) {
	if debtor := e.accounts.Account(from); debtor != nil {
		debtor.ForceDebit(amount)
	}
	if creditor := e.accounts.Account(to); creditor != nil {
		creditor.Credit(amount)
	}
}
