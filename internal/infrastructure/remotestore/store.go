// Package remotestore backs the store contract with a remote append-only
// log: writes are fire-and-forget appends, reads replay the log, removals
// are no-ops because the log is audit-grade.
package remotestore

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_appendlog.go -package=mocks . AppendLog

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/domain/clock"
	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Record is one appended log line: the folded kind plus the tagged
// payload so replay can rebuild the concrete message.
type Record struct {
	MessageID  uuid.UUID
	ChainID    uuid.UUID
	Kind       message.Kind
	Direction  message.Direction
	Payload    []byte
	RecordedAt time.Time
}

// AppendLog is the remote persistence contract.
type AppendLog interface {
	Append(ctx context.Context, rec Record) error
	ByChainAndKind(ctx context.Context, chainID uuid.UUID, k message.Kind, dir message.Direction) ([]Record, error)
	ByKind(ctx context.Context, k message.Kind, dir message.Direction) ([]Record, error)
	Chains(ctx context.Context) ([]uuid.UUID, error)
}

// Store implements message.Store over an AppendLog.
type Store struct {
	owner  message.ActorID
	log    AppendLog
	sched  clock.Scheduler
	logger zerolog.Logger
	ctx    context.Context
}

func New(owner message.ActorID, log AppendLog, sched clock.Scheduler, logger zerolog.Logger) *Store {
	return &Store{
		owner:  owner,
		log:    log,
		sched:  sched,
		logger: logger.With().Str("store", "remote").Str("actor", string(owner)).Logger(),
		ctx:    context.Background(),
	}
}

// Record appends, fire-and-forget. Append failures are logged and dropped:
// the remote log trades durability for write acknowledgement, not the
// other way around.
func (s *Store) Record(m message.Message, dir message.Direction) {
	payload, err := message.Marshal(m)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(m.Kind())).Msg("serialize for append failed")
		return
	}
	env := m.Env()
	rec := Record{
		MessageID:  env.ID,
		ChainID:    env.ChainID,
		Kind:       m.Kind().Fold(),
		Direction:  dir,
		Payload:    payload,
		RecordedAt: s.sched.Now(),
	}
	if err := s.log.Append(s.ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("kind", string(m.Kind())).Msg("append to remote log failed")
	}
}

func (s *Store) Query(chainID uuid.UUID, k message.Kind, dir message.Direction) []message.Message {
	recs, err := s.log.ByChainAndKind(s.ctx, chainID, k.Fold(), dir)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(k)).Msg("remote query failed")
		return nil
	}
	return s.replay(recs)
}

func (s *Store) QueryKind(k message.Kind, dir message.Direction) []message.Message {
	recs, err := s.log.ByKind(s.ctx, k.Fold(), dir)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(k)).Msg("remote query failed")
		return nil
	}
	return s.replay(recs)
}

func (s *Store) replay(recs []Record) []message.Message {
	out := make([]message.Message, 0, len(recs))
	for _, rec := range recs {
		m, err := message.Unmarshal(rec.Payload)
		if err != nil {
			s.logger.Warn().Err(err).Str("messageId", rec.MessageID.String()).Msg("skipping unreplayable record")
			continue
		}
		out = append(out, m)
	}
	return out
}

// Forget is a no-op: the remote log is append-only.
func (s *Store) Forget(m message.Message, dir message.Direction) {
	s.logger.Debug().Str("kind", string(m.Kind())).Msg("forget ignored by append-only store")
}

// CloseChain is a no-op: closed chains stay replayable for audit.
func (s *Store) CloseChain(chainID uuid.UUID) {
	s.logger.Debug().Str("chain", chainID.String()).Msg("close ignored by append-only store")
}

func (s *Store) OpenChains() []uuid.UUID {
	ids, err := s.log.Chains(s.ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("remote chain listing failed")
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
