package static

import (
	"context"
	"fmt"
	"sync"

	"github.com/vrctcg/giftgate/service/identity"
)

// Resolver maps user ids to display names from a fixed table. It backs tests
// and offline setups; production wires an adapter over the chat transport's
// user lookup instead.
type Resolver struct {
	mu    sync.RWMutex
	names map[string]string
}

func New(names map[string]string) *Resolver {
	if names == nil {
		names = map[string]string{}
	}
	return &Resolver{names: names}
}

// Add registers or replaces a user mapping.
func (r *Resolver) Add(userID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[userID] = displayName
}

func (r *Resolver) DisplayName(_ context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[userID]
	if !ok {
		return "", fmt.Errorf("%w: %s", identity.ErrUnknownUser, userID)
	}
	return name, nil
}

var _ identity.Resolver = (*Resolver)(nil)
