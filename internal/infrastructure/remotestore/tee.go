package remotestore

import (
	"github.com/google/uuid"

	"github.com/trade-hub/trade-hub/internal/domain/message"
)

// Tee duplicates every write into an audit store while the primary store
// keeps serving reads and removals.
type Tee struct {
	primary message.Store
	audit   message.Store
}

func NewTee(primary, audit message.Store) *Tee {
	return &Tee{primary: primary, audit: audit}
}

func (t *Tee) Record(m message.Message, dir message.Direction) {
	t.primary.Record(m, dir)
	t.audit.Record(m, dir)
}

func (t *Tee) Query(chainID uuid.UUID, k message.Kind, dir message.Direction) []message.Message {
	return t.primary.Query(chainID, k, dir)
}

func (t *Tee) QueryKind(k message.Kind, dir message.Direction) []message.Message {
	return t.primary.QueryKind(k, dir)
}

func (t *Tee) Forget(m message.Message, dir message.Direction) {
	t.primary.Forget(m, dir)
}

func (t *Tee) CloseChain(chainID uuid.UUID) {
	t.primary.CloseChain(chainID)
}

func (t *Tee) OpenChains() []uuid.UUID {
	return t.primary.OpenChains()
}
