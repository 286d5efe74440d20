package penalty

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/infrastructure/memstore"
	"github.com/trade-hub/trade-hub/internal/infrastructure/simclock"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type world struct {
	accounts map[message.ActorID]ledger.Account
	stores   map[message.ActorID]message.Store
}

func (w *world) Account(id message.ActorID) ledger.Account { return w.accounts[id] }
func (w *world) Store(id message.ActorID) message.Store    { return w.stores[id] }

type capturingSender struct {
	sent []message.Message
}

func (c *capturingSender) Send(m message.Message) { c.sent = append(c.sent, m) }

func fixture(t *testing.T) (*simclock.Clock, *world, *capturingSender, *Enforcer, message.Order) {
	t.Helper()
	clk := simclock.New(t0)
	w := &world{
		accounts: map[message.ActorID]ledger.Account{
			"buyer-1":  ledger.NewMemAccount(1000),
			"seller-1": ledger.NewMemAccount(1000),
		},
		stores: map[message.ActorID]message.Store{
			"buyer-1":  memstore.New("buyer-1", clk, nil, zerolog.Nop()),
			"seller-1": memstore.New("seller-1", clk, nil, zerolog.Nop()),
		},
	}
	sender := &capturingSender{}
	enf := New(Config{
		FineFixed:               100,
		DeliveryFineMargin:      0.1,
		PaymentFineMarginPerDay: 0.01,
		DeliveryGrace:           24 * time.Hour,
		BillGrace:               24 * time.Hour,
	}, clk, w, w, sender, zerolog.Nop())

	d := message.NewDemand("buyer-1", "widget", 10, t0.AddDate(0, 0, 5), t0.AddDate(0, 0, 30), t0)
	rfq := message.NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := message.NewQuote(rfq, 10, 50, t0.AddDate(0, 0, 8), message.TransportRoad, t0.AddDate(0, 0, 20), t0)
	o := message.NewOrderFromQuote(q, t0.AddDate(0, 0, 10), t0)
	return clk, w, sender, enf, o
}

func TestWatchDeliveryFinesMissedDelivery(t *testing.T) {
	clk, w, _, enf, o := fixture(t)
	w.stores["buyer-1"].Record(o, message.Sent)

	enf.WatchDelivery(o)
	clk.RunAll()

	// fine = 100 + 0.1 * 500
	assert.InDelta(t, 1000-150, w.accounts["seller-1"].Balance(), 1e-9)
	assert.InDelta(t, 1000+150, w.accounts["buyer-1"].Balance(), 1e-9)
	assert.True(t, clk.Now().Equal(o.DeliveryDate().Add(24*time.Hour)))
}

func TestWatchDeliverySkipsDeliveredOrder(t *testing.T) {
	clk, w, _, enf, o := fixture(t)
	w.stores["buyer-1"].Record(o, message.Sent)
	sh := message.NewShipment(o, o.OrderedQuantity(), o.OrderPrice(), t0.AddDate(0, 0, 9))
	w.stores["buyer-1"].Record(sh, message.Received)

	enf.WatchDelivery(o)
	clk.RunAll()

	assert.InDelta(t, 1000, w.accounts["seller-1"].Balance(), 1e-9)
	assert.InDelta(t, 1000, w.accounts["buyer-1"].Balance(), 1e-9)
}

func TestWatchDeliverySkipsClosedChain(t *testing.T) {
	clk, w, _, enf, o := fixture(t)
	w.stores["buyer-1"].Record(o, message.Sent)

	enf.WatchDelivery(o)
	// The chain settles and closes before the watchdog fires.
	w.stores["buyer-1"].CloseChain(o.Env().ChainID)
	clk.RunAll()

	assert.InDelta(t, 1000, w.accounts["seller-1"].Balance(), 1e-9)
}

func TestAssessLatePayment(t *testing.T) {
	_, w, _, enf, o := fixture(t)
	due := t0.AddDate(0, 0, 20)
	b := message.NewBill(o, 500, due, t0.AddDate(0, 0, 12))
	p := message.NewPayment(b, 500, due.Add(36*time.Hour))

	t.Run("on time is free", func(t *testing.T) {
		enf.AssessLatePayment(p, b, due)
		assert.InDelta(t, 1000, w.accounts["buyer-1"].Balance(), 1e-9)
	})

	t.Run("late days round up", func(t *testing.T) {
		// 36h late is two started days: fine = 100 + 0.01 * 500 * 2.
		enf.AssessLatePayment(p, b, due.Add(36*time.Hour))
		assert.InDelta(t, 1000-110, w.accounts["buyer-1"].Balance(), 1e-9)
		assert.InDelta(t, 1000+110, w.accounts["seller-1"].Balance(), 1e-9)
	})
}

func TestWatchBillForcesPayment(t *testing.T) {
	clk, w, sender, enf, o := fixture(t)
	due := t0.AddDate(0, 0, 20)
	b := message.NewBill(o, 500, due, t0.AddDate(0, 0, 12))

	enf.WatchBill(b)
	clk.RunAll()

	// The buyer is debited even though 500 was coverable; the credit side
	// happens when the emitted payment reaches the seller.
	assert.InDelta(t, 500, w.accounts["buyer-1"].Balance(), 1e-9)
	assert.InDelta(t, 1000, w.accounts["seller-1"].Balance(), 1e-9)

	require.Len(t, sender.sent, 1)
	p, ok := sender.sent[0].(*message.Payment)
	require.True(t, ok)
	assert.Equal(t, b.ID, p.BillID)
	assert.InDelta(t, 500, p.Amount, 1e-9)
	assert.Equal(t, b.Receiver, p.Sender)
	assert.Equal(t, b.Sender, p.Receiver)
}

func TestWatchBillSkipsPaidBill(t *testing.T) {
	clk, w, sender, enf, o := fixture(t)
	b := message.NewBill(o, 500, t0.AddDate(0, 0, 20), t0.AddDate(0, 0, 12))

	enf.WatchBill(b)
	b.Paid = true
	clk.RunAll()

	assert.InDelta(t, 1000, w.accounts["buyer-1"].Balance(), 1e-9)
	assert.Empty(t, sender.sent)
}

func TestForcedPaymentMayOverdraw(t *testing.T) {
	clk, w, _, enf, o := fixture(t)
	b := message.NewBill(o, 5000, t0.AddDate(0, 0, 20), t0.AddDate(0, 0, 12))

	enf.WatchBill(b)
	clk.RunAll()

	assert.InDelta(t, 1000-5000, w.accounts["buyer-1"].Balance(), 1e-9)
}
