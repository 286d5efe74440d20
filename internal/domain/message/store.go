package message

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_store.go -package=mocks . Store

import (
	"github.com/google/uuid"
)

// Store is a per-actor index of sent and received trade messages,
// correlated by demand chain.
//
// Record applies the fold rule, then prunes the predecessor the recorded
// message answers (per Kind.Supersedes) from the opposite direction
// partition; a missing predecessor is skipped, never an error. Index
// mutation and pruning are applied atomically with respect to the
// triggering callback.
//
// Query returns insertion-ordered results and an empty slice when nothing
// matches. Forget removes a message from the direction-partitioned
// indexes only; the chain index keeps it until CloseChain. CloseChain
// cascades over every kind of the chain for both directions and is
// idempotent.
type Store interface {
	Record(m Message, dir Direction)
	Query(chainID uuid.UUID, k Kind, dir Direction) []Message
	QueryKind(k Kind, dir Direction) []Message
	Forget(m Message, dir Direction)
	CloseChain(chainID uuid.UUID)
	OpenChains() []uuid.UUID
}
