// Package leanstore bounds a message store in time: every still-open
// request schedules its own expiry, and the answer's arrival cancels it.
package leanstore

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/chain"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/infrastructure/memstore"
)

// Store wraps the retain-all store and force-forgets open requests
// (demand, RFQ, quote, order) whose deadline passes unanswered.
type Store struct {
	inner  *memstore.Store
	sched  clock.Scheduler
	events chain.Publisher
	logger zerolog.Logger
	owner  message.ActorID

	mu      sync.Mutex
	pending map[uuid.UUID]map[uuid.UUID]clock.Token // chain id -> message id -> expiry token
}

func New(owner message.ActorID, sched clock.Scheduler, events chain.Publisher, logger zerolog.Logger) *Store {
	if events == nil {
		events = chain.Nop{}
	}
	return &Store{
		inner:   memstore.New(owner, sched, events, logger),
		sched:   sched,
		events:  events,
		logger:  logger.With().Str("store", "lean").Str("actor", string(owner)).Logger(),
		owner:   owner,
		pending: make(map[uuid.UUID]map[uuid.UUID]clock.Token),
	}
}

func (s *Store) Record(m message.Message, dir message.Direction) {
	s.inner.Record(m, dir)

	s.mu.Lock()
	defer s.mu.Unlock()

	// The recorded answer settles its request: the expiry watching that
	// request must not fire anymore.
	if answers := m.Answers(); answers != uuid.Nil {
		s.cancelLocked(m.Env().ChainID, answers)
	}

	deadline, ok := message.Deadline(m)
	if !ok {
		return
	}
	if !deadline.After(s.sched.Now()) {
		// Born expired; let the callback fire on the next step.
		deadline = s.sched.Now()
	}
	env := m.Env()
	// The same message may come through twice, once per direction, when
	// sender and receiver are the same actor. One expiry is enough.
	if _, watched := s.pending[env.ChainID][env.ID]; watched {
		return
	}
	tok := s.sched.ScheduleAt(deadline, func() { s.expire(m) })
	if s.pending[env.ChainID] == nil {
		s.pending[env.ChainID] = make(map[uuid.UUID]clock.Token)
	}
	s.pending[env.ChainID][env.ID] = tok
}

func (s *Store) cancelLocked(chainID, msgID uuid.UUID) {
	toks, ok := s.pending[chainID]
	if !ok {
		return
	}
	tok, ok := toks[msgID]
	if !ok {
		return
	}
	s.sched.Cancel(tok)
	delete(toks, msgID)
	if len(toks) == 0 {
		delete(s.pending, chainID)
	}
}

// expire forgets an unanswered request and its still-open ancestors. Once
// the chain has no open request left it is closed and reported expired.
// Firing twice, or after the answer arrived, is a no-op.
func (s *Store) expire(m message.Message) {
	env := m.Env()

	s.mu.Lock()
	toks, ok := s.pending[env.ChainID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, open := toks[env.ID]; !open {
		s.mu.Unlock()
		return
	}
	delete(toks, env.ID)
	chainDone := len(toks) == 0
	if chainDone {
		delete(s.pending, env.ChainID)
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("kind", string(m.Kind())).
		Str("chain", env.ChainID.String()).
		Msg("open request expired unanswered")

	s.inner.Forget(m, message.AnyDirection)
	s.forgetAncestors(m)

	// A chain that placed an order is past negotiation; settlement owns
	// its closure. Only a chain that never got that far dies by expiry.
	if chainDone && len(s.inner.Query(env.ChainID, message.KindOrder, message.AnyDirection)) == 0 {
		s.events.Publish(chain.Event{ChainID: env.ChainID, Actor: string(s.owner), Type: chain.Expired, At: s.sched.Now()})
		s.inner.CloseChain(env.ChainID)
	}
}

// forgetAncestors walks the answers links upward and drops entries that
// only existed to serve the now-dead request.
func (s *Store) forgetAncestors(m message.Message) {
	for id := m.Answers(); id != uuid.Nil; {
		pred, ok := s.inner.Get(id)
		if !ok {
			return
		}
		s.inner.Forget(pred, message.AnyDirection)
		id = pred.Answers()
	}
}

func (s *Store) Query(chainID uuid.UUID, k message.Kind, dir message.Direction) []message.Message {
	return s.inner.Query(chainID, k, dir)
}

func (s *Store) QueryKind(k message.Kind, dir message.Direction) []message.Message {
	return s.inner.QueryKind(k, dir)
}

func (s *Store) Forget(m message.Message, dir message.Direction) {
	s.inner.Forget(m, dir)
}

func (s *Store) CloseChain(chainID uuid.UUID) {
	s.mu.Lock()
	for msgID := range s.pending[chainID] {
		s.cancelLocked(chainID, msgID)
	}
	s.mu.Unlock()

	s.inner.CloseChain(chainID)
}

func (s *Store) OpenChains() []uuid.UUID {
	return s.inner.OpenChains()
}

// Get resolves a message by id while the chain is still open.
func (s *Store) Get(id uuid.UUID) (message.Message, bool) {
	return s.inner.Get(id)
}
