package policy

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/trade-hub/trade-hub/internal/application/dispatch"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/clock/mocks"
	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/infrastructure/memstore"
)

func TestCourierDelaysDeliveryByWireTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockScheduler(ctrl)
	sched.EXPECT().Now().Return(t0).AnyTimes()

	actors := NewActors()
	store := memstore.New("buyer-1", sched, nil, zerolog.Nop())
	actors.Add(&Actor{ID: "buyer-1", Store: store})

	c := NewCourier(sched, actors, zerolog.Nop())
	c.WireDelay = 2 * time.Hour

	var deliver func()
	sched.EXPECT().
		ScheduleAt(t0.Add(2*time.Hour), gomock.Any()).
		DoAndReturn(func(_ time.Time, fn func()) clock.Token {
			deliver = fn
			return clock.Token(1)
		})

	d := message.NewDemand("buyer-1", product, 5, t0.AddDate(0, 0, 10), t0.AddDate(0, 0, 30), t0)
	c.Send(d)

	// The sent copy lands immediately; delivery waits for the wire.
	assert.Len(t, store.Query(d.ChainID, message.KindDemand, message.Sent), 1)
	require.NotNil(t, deliver)
	deliver()
}

func TestCourierZeroWireDelayDeliversInline(t *testing.T) {
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockScheduler(ctrl)
	sched.EXPECT().Now().Return(t0).AnyTimes()

	actors := NewActors()
	seller := memstore.New("seller-1", sched, nil, zerolog.Nop())
	disp := dispatch.New("seller-1", seller, zerolog.Nop())
	actors.Add(&Actor{ID: "seller-1", Store: seller, Dispatcher: disp})

	c := NewCourier(sched, actors, zerolog.Nop())

	d := message.NewDemand("buyer-1", product, 5, t0.AddDate(0, 0, 10), t0.AddDate(0, 0, 30), t0)
	rfq := message.NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	c.Send(rfq)

	// No ScheduleAt expectation: the dispatch happened within this call.
	// The seller has no quoting policy registered, so the message counts
	// as rejected and stays off its store.
	assert.Equal(t, uint64(1), disp.Stats().Rejected)
	assert.Empty(t, seller.Query(d.ChainID, message.KindRequestForQuote, message.Received))
}
