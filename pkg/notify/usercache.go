package notify

import (
	"context"
	"sync"

	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

// UserResolver memoizes user lookups for the lifetime of the process.
// Entries are never evicted; user ids are bounded and stale display
// fields are an accepted trade-off. Safe for concurrent use, so both
// ingestion paths share one resolver.
type UserResolver struct {
	source UserSource

	mu    sync.Mutex
	users map[int]*zammad.User
}

// NewUserResolver creates a resolver backed by the given lookup source.
func NewUserResolver(source UserSource) *UserResolver {
	return &UserResolver{
		source: source,
		users:  make(map[int]*zammad.User),
	}
}

// Resolve returns the user with the given id, fetching it on first
// reference. A non-positive id resolves to nil without a lookup. Lookup
// failures are returned to the caller and not cached.
func (r *UserResolver) Resolve(ctx context.Context, id int) (*zammad.User, error) {
	if id <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	if user, ok := r.users[id]; ok {
		r.mu.Unlock()
		return user, nil
	}
	r.mu.Unlock()

	user, err := r.source.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.users[id] = user
	r.mu.Unlock()
	return user, nil
}
