package memory

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vrctcg/giftgate/internal/clock"
	"github.com/vrctcg/giftgate/internal/idgen"
	"github.com/vrctcg/giftgate/service/dao"
	"github.com/vrctcg/giftgate/service/dao/store"
	"github.com/vrctcg/giftgate/service/messaging"
	qmem "github.com/vrctcg/giftgate/service/messaging/memory"
	"github.com/vrctcg/giftgate/service/proposal"
)

type service struct {
	registry *store.MemoryStore[string, proposal.Proposal]

	// fan-out queue for lifecycle events
	events messaging.Queue[proposal.Event]

	// optional deadline applied to new proposals; zero means no expiry
	ttl time.Duration
}

// key selector - grab ID field
func proposalKey(p *proposal.Proposal) string { return p.ID }

// New creates an in-memory proposal registry. The registry is single-process
// only; a restart discards every pending proposal, which doubles as the
// implicit expiry of the base design.
func New(options ...Option) proposal.Service {
	ret := &service{
		registry: store.NewMemoryStore[string, proposal.Proposal](proposalKey),
		events:   qmem.NewQueue[proposal.Event](qmem.DefaultConfig()),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Register(ctx context.Context, p *proposal.Proposal) error {
	if p == nil {
		return errors.New("invalid proposal")
	}
	// Proposals are keyed by the originating request id. The id is expected
	// to be unique across concurrently pending proposals; generate one only
	// when the transport did not supply it.
	if p.ID == "" {
		p.ID = idgen.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = clock.Now()
	}
	if p.ExpiresAt == nil && s.ttl > 0 {
		deadline := p.CreatedAt.Add(s.ttl)
		p.ExpiresAt = &deadline
	}
	p.State = proposal.StatePending

	if err := s.registry.Save(ctx, p); err != nil {
		return err
	}
	// lifecycle events are best-effort; a full or unconsumed queue never
	// blocks or fails registration
	if err := s.events.Publish(ctx, &proposal.Event{Topic: proposal.TopicProposalCreated, Data: p}); err != nil {
		log.Printf("failed to publish created event for %v: %v", p.ID, err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*proposal.Proposal, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	p, err := s.registry.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, proposal.ErrNotFound
	}
	return p, err
}

func (s *service) Take(ctx context.Context, id string) (*proposal.Proposal, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	p, err := s.registry.Take(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, proposal.ErrNotFound
	}
	return p, err
}

func (s *service) ListPending(ctx context.Context) ([]*proposal.Proposal, error) {
	return s.registry.List(ctx)
}

func (s *service) Queue() messaging.Queue[proposal.Event] { return s.events }

var _ proposal.Service = (*service)(nil)
