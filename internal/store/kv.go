package store

import "context"

// Collection keys in the shared namespace. The names match the
// original deployment so an existing dataset keeps working.
const (
	KeyUsers        = "support_system_users"
	KeyProfiles     = "support_system_profiles"
	KeyTickets      = "support_system_tickets"
	KeyProblemTypes = "support_system_problem_types"
	KeyHistory      = "support_system_ticket_history"
)

// KV is a synchronous key-value namespace holding whole collections as
// opaque blobs. There are no partial updates and no transactions; every
// write replaces the collection and every reader sees it immediately.
type KV interface {
	// Get returns the value for key, with ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
