package policy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/trade-hub/trade-hub/internal/domain/ledger"
	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/domain/message/mocks"
	"github.com/trade-hub/trade-hub/internal/infrastructure/simclock"
)

func settledBill() (*message.Bill, *message.Payment) {
	d := message.NewDemand("buyer-1", product, 10, t0.AddDate(0, 0, 5), t0.AddDate(0, 0, 30), t0)
	rfq := message.NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := message.NewQuote(rfq, 10, 50, t0.AddDate(0, 0, 8), message.TransportRoad, t0.AddDate(0, 0, 20), t0)
	o := message.NewOrderFromQuote(q, t0.AddDate(0, 0, 10), t0)
	b := message.NewBill(o, 500, t0.AddDate(0, 0, 40), t0.AddDate(0, 0, 10))
	p := message.NewPayment(b, 500, t0.AddDate(0, 0, 40))
	return b, p
}

func TestPaymentSettlesBillAndClosesChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clk := simclock.New(t0)
	account := ledger.NewMemAccount(1000)
	b, p := settledBill()

	store.EXPECT().
		Query(b.ChainID, message.KindBill, message.AnyDirection).
		Return([]message.Message{b})
	store.EXPECT().CloseChain(b.ChainID)

	pol := NewPaymentPolicy("seller-1", store, account, clk, nil, zerolog.Nop())
	assert.True(t, pol.Handle(p))

	assert.True(t, b.Paid)
	assert.InDelta(t, 1500, account.Balance(), 1e-9)
}

func TestPaymentWithoutBillKeepsCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	clk := simclock.New(t0)
	account := ledger.NewMemAccount(1000)
	b, p := settledBill()

	// No bill on record: the credit stays, the chain stays open.
	store.EXPECT().
		Query(b.ChainID, message.KindBill, message.AnyDirection).
		Return(nil)

	pol := NewPaymentPolicy("seller-1", store, account, clk, nil, zerolog.Nop())
	assert.True(t, pol.Handle(p))

	assert.False(t, b.Paid)
	assert.InDelta(t, 1500, account.Balance(), 1e-9)
}
