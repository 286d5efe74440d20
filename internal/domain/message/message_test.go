package message

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testDemand() *Demand {
	return NewDemand("buyer-1", "widget", 40, t0.AddDate(0, 0, 10), t0.AddDate(0, 0, 30), t0)
}

func TestKindFold(t *testing.T) {
	tests := []struct {
		in   Kind
		want Kind
	}{
		{KindOrderFromQuote, KindOrder},
		{KindDirectOrder, KindOrder},
		{KindOrder, KindOrder},
		{KindDemand, KindDemand},
		{KindQuote, KindQuote},
		{KindPayment, KindPayment},
	}
	for _, tc := range tests {
		t.Run(string(tc.in), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Fold())
		})
	}
}

func TestKindSupersedes(t *testing.T) {
	tests := []struct {
		in     Kind
		want   Kind
		prunes bool
	}{
		{KindYellowPageAnswer, KindYellowPageRequest, true},
		{KindQuote, KindRequestForQuote, true},
		{KindOrderFromQuote, KindQuote, true},
		{KindPayment, KindBill, true},
		{KindDirectOrder, "", false},
		{KindConfirmation, "", false},
		{KindShipment, "", false},
		{KindBill, "", false},
		{KindDemand, "", false},
	}
	for _, tc := range tests {
		t.Run(string(tc.in), func(t *testing.T) {
			got, ok := tc.in.Supersedes()
			assert.Equal(t, tc.prunes, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, Received, Sent.Opposite())
	assert.Equal(t, Sent, Received.Opposite())
	assert.Equal(t, AnyDirection, AnyDirection.Opposite())
}

func TestDemandRootsChain(t *testing.T) {
	d := testDemand()
	assert.Equal(t, d.ID, d.ChainID)
	assert.Equal(t, d.Sender, d.Receiver)
	assert.Equal(t, uuid.Nil, d.Answers())
}

func TestAnswerLinks(t *testing.T) {
	d := testDemand()
	rfq := NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := NewQuote(rfq, rfq.Quantity, 12.5, t0.AddDate(0, 0, 8), TransportRoad, t0.AddDate(0, 0, 3), t0)
	o := NewOrderFromQuote(q, t0.AddDate(0, 0, 9), t0)
	c := NewConfirmation(o, true, t0)
	sh := NewShipment(o, o.Quantity, o.OrderPrice(), t0)
	b := NewBill(o, o.OrderPrice(), t0.AddDate(0, 0, 40), t0)
	p := NewPayment(b, b.Amount, t0)

	assert.Equal(t, d.ID, rfq.Answers())
	assert.Equal(t, rfq.ID, q.Answers())
	assert.Equal(t, q.ID, o.Answers())
	assert.Equal(t, o.ID, c.Answers())
	assert.Equal(t, o.ID, sh.Answers())
	assert.Equal(t, o.ID, b.Answers())
	assert.Equal(t, b.ID, p.Answers())

	// The whole exchange stays on the demand's chain.
	for _, m := range []Message{rfq, q, o, c, sh, b, p} {
		assert.Equal(t, d.ChainID, m.Env().ChainID, string(m.Kind()))
	}

	// Replies flip sender and receiver.
	assert.Equal(t, rfq.Receiver, q.Sender)
	assert.Equal(t, rfq.Sender, q.Receiver)
	assert.Equal(t, o.Receiver, b.Sender)
	assert.Equal(t, o.Sender, b.Receiver)
}

func TestOrderVariants(t *testing.T) {
	d := testDemand()
	rfq := NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := NewQuote(rfq, 40, 12.5, t0.AddDate(0, 0, 8), TransportRail, t0.AddDate(0, 0, 3), t0)

	var o Order = NewOrderFromQuote(q, t0.AddDate(0, 0, 9), t0)
	assert.Equal(t, 40, o.OrderedQuantity())
	assert.InDelta(t, 500.0, o.OrderPrice(), 1e-9)
	assert.Equal(t, TransportRail, o.TransportOption())
	assert.Equal(t, KindOrder, o.Kind().Fold())

	var direct Order = NewDirectOrder(d, "seller-1", 10, t0.AddDate(0, 0, 10), TransportRoad, t0)
	assert.Equal(t, 40, direct.OrderedQuantity())
	assert.InDelta(t, 400.0, direct.OrderPrice(), 1e-9)
	assert.Equal(t, KindOrder, direct.Kind().Fold())
}

func TestDeadline(t *testing.T) {
	d := testDemand()
	rfq := NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := NewQuote(rfq, 40, 12.5, t0.AddDate(0, 0, 8), TransportRoad, t0.AddDate(0, 0, 3), t0)
	o := NewOrderFromQuote(q, t0.AddDate(0, 0, 9), t0)

	tests := []struct {
		name string
		msg  Message
		want time.Time
		has  bool
	}{
		{"demand", d, d.LatestDelivery, true},
		{"rfq", rfq, rfq.Cutoff, true},
		{"quote", q, q.ValidUntil, true},
		{"order", o, o.Delivery, true},
		{"confirmation", NewConfirmation(o, true, t0), time.Time{}, false},
		{"shipment", NewShipment(o, 40, 500, t0), time.Time{}, false},
		{"bill", NewBill(o, 500, t0.AddDate(0, 0, 40), t0), time.Time{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Deadline(tc.msg)
			assert.Equal(t, tc.has, ok)
			if tc.has {
				assert.True(t, got.Equal(tc.want))
			}
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	d := testDemand()
	rfq := NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := NewQuote(rfq, 40, 12.5, t0.AddDate(0, 0, 8), TransportAir, t0.AddDate(0, 0, 3), t0)
	o := NewOrderFromQuote(q, t0.AddDate(0, 0, 9), t0)
	b := NewBill(o, o.OrderPrice(), t0.AddDate(0, 0, 40), t0)

	t.Run("quote", func(t *testing.T) {
		data, err := Marshal(q)
		require.NoError(t, err)
		back, err := Unmarshal(data)
		require.NoError(t, err)
		got, ok := back.(*Quote)
		require.True(t, ok)
		assert.Equal(t, q.ID, got.ID)
		assert.Equal(t, q.RFQID, got.RFQID)
		assert.InDelta(t, q.UnitPrice, got.UnitPrice, 1e-9)
		assert.Equal(t, q.Transport, got.Transport)
		assert.True(t, q.ValidUntil.Equal(got.ValidUntil))
	})

	t.Run("order keeps concrete variant", func(t *testing.T) {
		data, err := Marshal(o)
		require.NoError(t, err)
		back, err := Unmarshal(data)
		require.NoError(t, err)
		got, ok := back.(*OrderFromQuote)
		require.True(t, ok)
		assert.Equal(t, o.QuoteID, got.QuoteID)
		assert.Equal(t, KindOrder, got.Kind().Fold())
	})

	t.Run("bill", func(t *testing.T) {
		data, err := Marshal(b)
		require.NoError(t, err)
		back, err := Unmarshal(data)
		require.NoError(t, err)
		got, ok := back.(*Bill)
		require.True(t, ok)
		assert.Equal(t, b.OrderID, got.OrderID)
		assert.InDelta(t, b.Amount, got.Amount, 1e-9)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"kind":"demand","data":`))
		assert.Error(t, err)
		_, err = Unmarshal([]byte(`{"kind":"no_such_kind","data":{}}`))
		assert.Error(t, err)
	})
}
