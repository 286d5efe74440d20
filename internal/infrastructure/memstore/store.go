// Package memstore is the retain-all message store: an id arena plus
// chain- and kind-partitioned indexes, kept until the chain closes.
package memstore

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/trade-hub/trade-hub/internal/domain/chain"
	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

type entry struct {
	msg  message.Message
	dirs map[message.Direction]bool
}

// Store implements message.Store in memory. Cross-references between
// messages stay id lookups into the arena, so removal is cheap and the
// object graph has no ownership cycles.
type Store struct {
	owner  message.ActorID
	logger zerolog.Logger
	sched  clock.Scheduler
	events chain.Publisher

	mu      sync.Mutex
	arena   map[uuid.UUID]*entry
	chains  map[uuid.UUID]map[message.Kind][]uuid.UUID
	byKind  map[message.Direction]map[message.Kind][]uuid.UUID
}

func New(owner message.ActorID, sched clock.Scheduler, events chain.Publisher, logger zerolog.Logger) *Store {
	if events == nil {
		events = chain.Nop{}
	}
	return &Store{
		owner:  owner,
		logger: logger.With().Str("store", "mem").Str("actor", string(owner)).Logger(),
		sched:  sched,
		events: events,
		arena:  make(map[uuid.UUID]*entry),
		chains: make(map[uuid.UUID]map[message.Kind][]uuid.UUID),
		byKind: map[message.Direction]map[message.Kind][]uuid.UUID{
			message.Sent:     make(map[message.Kind][]uuid.UUID),
			message.Received: make(map[message.Kind][]uuid.UUID),
		},
	}
}

// Record indexes m under its folded kind and prunes the predecessor it
// answers, in one step.
func (s *Store) Record(m message.Message, dir message.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := m.Env()
	k := m.Kind().Fold()

	if _, known := s.chains[env.ChainID]; !known {
		s.chains[env.ChainID] = make(map[message.Kind][]uuid.UUID)
		s.events.Publish(chain.Event{ChainID: env.ChainID, Actor: string(s.owner), Type: chain.Opened, At: s.sched.Now()})
	}

	e, ok := s.arena[env.ID]
	if !ok {
		e = &entry{msg: m, dirs: make(map[message.Direction]bool)}
		s.arena[env.ID] = e
		s.chains[env.ChainID][k] = append(s.chains[env.ChainID][k], env.ID)
	}
	if !e.dirs[dir] {
		e.dirs[dir] = true
		s.byKind[dir][k] = append(s.byKind[dir][k], env.ID)
	}

	s.pruneLocked(m, dir)
}

// pruneLocked forgets the request m answers from the opposite direction
// partition. An absent predecessor is normal (already expired or remote).
func (s *Store) pruneLocked(m message.Message, dir message.Direction) {
	sup, ok := m.Kind().Supersedes()
	if !ok || m.Answers() == uuid.Nil {
		return
	}
	pred, ok := s.arena[m.Answers()]
	if !ok {
		s.logger.Debug().
			Str("kind", string(m.Kind())).
			Str("answers", m.Answers().String()).
			Msg("superseded predecessor not indexed, skipping prune")
		return
	}
	if pred.msg.Kind().Fold() != sup {
		s.logger.Warn().
			Str("kind", string(m.Kind())).
			Str("predecessor", string(pred.msg.Kind())).
			Msg("answered message has unexpected kind, skipping prune")
		return
	}
	s.forgetLocked(pred.msg, dir.Opposite())
}

func (s *Store) Query(chainID uuid.UUID, k message.Kind, dir message.Direction) []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.chains[chainID][k.Fold()]
	out := make([]message.Message, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.arena[id]; ok && s.matches(e, dir) {
			out = append(out, e.msg)
		}
	}
	return out
}

func (s *Store) QueryKind(k message.Kind, dir message.Direction) []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir == message.AnyDirection {
		seen := make(map[uuid.UUID]bool)
		var out []message.Message
		for _, d := range []message.Direction{message.Sent, message.Received} {
			for _, id := range s.byKind[d][k.Fold()] {
				if e, ok := s.arena[id]; ok && !seen[id] {
					seen[id] = true
					out = append(out, e.msg)
				}
			}
		}
		return out
	}

	ids := s.byKind[dir][k.Fold()]
	out := make([]message.Message, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.arena[id]; ok {
			out = append(out, e.msg)
		}
	}
	return out
}

// matches applies the direction filter. AnyDirection means "still in the
// chain index", which includes messages forgotten from both partitions.
func (s *Store) matches(e *entry, dir message.Direction) bool {
	if dir == message.AnyDirection {
		return true
	}
	return e.dirs[dir]
}

// Forget removes m from the direction-partitioned indexes only; the chain
// index keeps the message until CloseChain.
func (s *Store) Forget(m message.Message, dir message.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetLocked(m, dir)
}

func (s *Store) forgetLocked(m message.Message, dir message.Direction) {
	id := m.Env().ID
	e, ok := s.arena[id]
	if !ok {
		return
	}
	dirs := []message.Direction{dir}
	if dir == message.AnyDirection {
		dirs = []message.Direction{message.Sent, message.Received}
	}
	k := m.Kind().Fold()
	for _, d := range dirs {
		if !e.dirs[d] {
			continue
		}
		delete(e.dirs, d)
		s.byKind[d][k] = lo.Without(s.byKind[d][k], id)
	}
}

// CloseChain cascades removal of every message of the chain, for both
// directions. Closing an unknown or already-closed chain is a no-op.
func (s *Store) CloseChain(chainID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds, ok := s.chains[chainID]
	if !ok {
		return
	}
	for k, ids := range kinds {
		for _, id := range ids {
			e, ok := s.arena[id]
			if !ok {
				continue
			}
			for d := range e.dirs {
				s.byKind[d][k] = lo.Without(s.byKind[d][k], id)
			}
			delete(s.arena, id)
		}
	}
	delete(s.chains, chainID)
	s.events.Publish(chain.Event{ChainID: chainID, Actor: string(s.owner), Type: chain.Closed, At: s.sched.Now()})
}

// OpenChains lists chains with at least one indexed message, in a stable
// order.
func (s *Store) OpenChains() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := lo.Keys(s.chains)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Get resolves a message by id while it is still in the arena.
func (s *Store) Get(id uuid.UUID) (message.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.arena[id]
	if !ok {
		return nil, false
	}
	return e.msg, true
}
