package remotestore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/infrastructure/memstore"
	"github.com/trade-hub/trade-hub/internal/infrastructure/remotestore"
	"github.com/trade-hub/trade-hub/internal/infrastructure/remotestore/mocks"
	"github.com/trade-hub/trade-hub/internal/infrastructure/simclock"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testChain() (*message.Demand, *message.Quote) {
	d := message.NewDemand("buyer-1", "widget", 40, t0.AddDate(0, 0, 10), t0.AddDate(0, 0, 30), t0)
	rfq := message.NewRequestForQuote(d, "seller-1", t0.AddDate(0, 0, 2), t0)
	q := message.NewQuote(rfq, 40, 12, t0.AddDate(0, 0, 8), message.TransportRoad, t0.AddDate(0, 0, 5), t0)
	return d, q
}

func TestRecordAppendsFoldedKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockAppendLog(ctrl)
	clk := simclock.New(t0)
	s := remotestore.New("buyer-1", log, clk, zerolog.Nop())

	d, q := testChain()
	o := message.NewOrderFromQuote(q, t0.AddDate(0, 0, 9), t0)

	var got []remotestore.Record
	log.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, rec remotestore.Record) error {
			got = append(got, rec)
			return nil
		}).
		Times(2)

	s.Record(d, message.Sent)
	s.Record(o, message.Sent)

	require.Len(t, got, 2)
	assert.Equal(t, message.KindDemand, got[0].Kind)
	assert.Equal(t, d.ChainID, got[0].ChainID)
	assert.Equal(t, message.Sent, got[0].Direction)
	// Order variants land under the canonical kind.
	assert.Equal(t, message.KindOrder, got[1].Kind)

	// The payload keeps the concrete variant.
	back, err := message.Unmarshal(got[1].Payload)
	require.NoError(t, err)
	_, isVariant := back.(*message.OrderFromQuote)
	assert.True(t, isVariant)
}

func TestRecordSwallowsAppendErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockAppendLog(ctrl)
	s := remotestore.New("buyer-1", log, simclock.New(t0), zerolog.Nop())

	log.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	d, _ := testChain()
	s.Record(d, message.Sent)
}

func TestQueryReplaysLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockAppendLog(ctrl)
	s := remotestore.New("buyer-1", log, simclock.New(t0), zerolog.Nop())

	d, q := testChain()
	payload, err := message.Marshal(q)
	require.NoError(t, err)

	recs := []remotestore.Record{
		{MessageID: q.ID, ChainID: d.ChainID, Kind: message.KindQuote, Direction: message.Received, Payload: payload},
		{MessageID: q.ID, ChainID: d.ChainID, Kind: message.KindQuote, Direction: message.Received, Payload: []byte("not json")},
	}
	log.EXPECT().
		ByChainAndKind(gomock.Any(), d.ChainID, message.KindQuote, message.Received).
		Return(recs, nil)

	got := s.Query(d.ChainID, message.KindQuote, message.Received)
	// The undecodable record is skipped, not fatal.
	require.Len(t, got, 1)
	quote, ok := got[0].(*message.Quote)
	require.True(t, ok)
	assert.Equal(t, q.ID, quote.ID)
	assert.InDelta(t, q.UnitPrice, quote.UnitPrice, 1e-9)
}

func TestQueryFoldsKindBeforeLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockAppendLog(ctrl)
	s := remotestore.New("buyer-1", log, simclock.New(t0), zerolog.Nop())

	d, _ := testChain()
	log.EXPECT().
		ByChainAndKind(gomock.Any(), d.ChainID, message.KindOrder, message.Sent).
		Return(nil, nil)

	assert.Empty(t, s.Query(d.ChainID, message.KindOrderFromQuote, message.Sent))
}

func TestRemovalsAreNoOps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: neither call may touch the log.
	log := mocks.NewMockAppendLog(ctrl)
	s := remotestore.New("buyer-1", log, simclock.New(t0), zerolog.Nop())

	d, _ := testChain()
	s.Forget(d, message.Sent)
	s.CloseChain(d.ChainID)
}

func TestTeeDuplicatesWritesOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockAppendLog(ctrl)
	clk := simclock.New(t0)
	primary := memstore.New("buyer-1", clk, nil, zerolog.Nop())
	tee := remotestore.NewTee(primary, remotestore.New("buyer-1", log, clk, zerolog.Nop()))

	d, _ := testChain()
	log.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	tee.Record(d, message.Sent)

	// Reads and removals stay local.
	assert.Len(t, tee.Query(d.ChainID, message.KindDemand, message.Sent), 1)
	tee.CloseChain(d.ChainID)
	assert.Empty(t, tee.OpenChains())
}

func TestOpenChainsSortedStable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := mocks.NewMockAppendLog(ctrl)
	s := remotestore.New("buyer-1", log, simclock.New(t0), zerolog.Nop())

	d1, _ := testChain()
	d2, _ := testChain()
	log.EXPECT().Chains(gomock.Any()).Return([]uuid.UUID{d2.ChainID, d1.ChainID}, nil)

	got := s.OpenChains()
	require.Len(t, got, 2)
	assert.True(t, got[0].String() < got[1].String())
}
