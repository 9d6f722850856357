package proposal

import (
	"context"
	"errors"

	"github.com/vrctcg/giftgate/service/messaging"
)

// ErrNotFound is returned for a proposal id that was never registered or has
// already left the pending state. Callers render it as an
// "expired or already processed" outcome, never as an internal failure.
var ErrNotFound = errors.New("proposal: not found")

// Service is the registry of pending proposals.
type Service interface {
	// Register stores a pending proposal keyed by its id.
	Register(ctx context.Context, p *Proposal) error

	// Get returns a pending proposal without claiming it.
	Get(ctx context.Context, id string) (*Proposal, error)

	// Take atomically claims a pending proposal, removing it from the
	// registry. Of two racing deciders exactly one succeeds; the other
	// observes ErrNotFound.
	Take(ctx context.Context, id string) (*Proposal, error)

	// ListPending returns all pending proposals.
	ListPending(ctx context.Context) ([]*Proposal, error)

	// Queue exposes the lifecycle event queue.
	Queue() messaging.Queue[Event]
}
