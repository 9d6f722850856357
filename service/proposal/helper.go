package proposal

import (
	"context"
	"log"
	"time"
)

// PendingFilter narrows the result of the ListPending helper.
type PendingFilter func(*Proposal) bool

// WithOriginator keeps proposals requested by the given actor.
func WithOriginator(actorID string) PendingFilter {
	return func(p *Proposal) bool { return p.Originator == actorID }
}

// WithCommand keeps proposals for the given command name.
func WithCommand(name string) PendingFilter {
	return func(p *Proposal) bool { return p.Kind != nil && p.Kind.Name() == name }
}

// ListPending lists pending proposals matching all supplied filters.
func ListPending(ctx context.Context, svc Service, filters ...PendingFilter) ([]*Proposal, error) {
	all, err := svc.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return all, nil
	}
	var out []*Proposal
outer:
	for _, p := range all {
		for _, filter := range filters {
			if !filter(p) {
				continue outer
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// SweepFunc handles a proposal whose ExpiresAt deadline has passed. The
// workflow engine wires it to its Expire transition so that the confirmation
// message is updated alongside the registry removal.
type SweepFunc func(ctx context.Context, p *Proposal)

// AutoExpire starts a goroutine that polls ListPending and hands every
// over-age proposal to fn. It returns stop() - call it (or cancel ctx) to
// exit. The base configuration never starts a sweeper: pending proposals
// live until explicitly decided or the process restarts.
func AutoExpire(ctx context.Context, svc Service, fn SweepFunc, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				pending, err := svc.ListPending(ctx)
				if err != nil {
					log.Printf("failed to list pending proposals: %v", err)
					continue
				}
				now := time.Now()
				for _, p := range pending {
					if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
						fn(ctx, p)
					}
				}
			}
		}
	}()
	return func() { close(done) }
}

// WaitForDecision blocks until a decision for the given proposal id is
// published on the service queue or the timeout elapses. It is a destructive
// consumer: every event it inspects is acked and discarded, including other
// proposals' events, so run at most one waiter per registry queue.
func WaitForDecision(ctx context.Context, svc Service, id string, timeout time.Duration) (*Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		msg, err := svc.Queue().Consume(ctx)
		if err != nil {
			return nil, err
		}
		event := msg.T()
		_ = msg.Ack()
		if d, ok := event.Data.(*Decision); ok && d.ID == id {
			return d, nil
		}
	}
}
