package giftgate

import (
	"context"

	"github.com/vrctcg/giftgate/model/command"
	"github.com/vrctcg/giftgate/service/auth"
	"github.com/vrctcg/giftgate/service/dispatcher"
	"github.com/vrctcg/giftgate/service/engine"
	"github.com/vrctcg/giftgate/service/identity"
	istatic "github.com/vrctcg/giftgate/service/identity/static"
	"github.com/vrctcg/giftgate/service/ledger"
	lmemory "github.com/vrctcg/giftgate/service/ledger/memory"
	"github.com/vrctcg/giftgate/service/proposal"
	pmemory "github.com/vrctcg/giftgate/service/proposal/memory"
	"github.com/vrctcg/giftgate/service/transport"
	tmemory "github.com/vrctcg/giftgate/service/transport/memory"
)

// Service wires the catalog, gate, registry, dispatcher and engine into one
// embeddable facade. Collaborators default to in-memory implementations so a
// zero-option Service is fully functional for tests; production embeds real
// transport, role, identity and ledger adapters.
type Service struct {
	config            *Config
	catalog           *command.Catalog
	roles             auth.RoleChecker
	conn              transport.Conn
	proposals         proposal.Service
	ledger            ledger.Service
	resolver          identity.Resolver
	dispatcherOptions []dispatcher.Option

	gate       *auth.Gate
	dispatcher dispatcher.Service
	engine     *engine.Service

	stopSweep func()
}

// New creates a gate service.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.gate = auth.New(s.roles, s.config.Gate)
	dispatcherOptions := s.dispatcherOptions
	if s.config.Inspect.InlineLimit > 0 {
		dispatcherOptions = append([]dispatcher.Option{
			dispatcher.WithInlineLimit(s.config.Inspect.InlineLimit),
		}, dispatcherOptions...)
	}
	s.dispatcher = dispatcher.New(s.ledger, s.resolver, dispatcherOptions...)
	s.engine = engine.New(s.catalog, s.gate, s.proposals, s.dispatcher, s.conn)
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.catalog == nil {
		s.catalog = command.NewCatalog()
	}
	if s.conn == nil {
		s.conn = tmemory.New()
	}
	if s.roles == nil {
		s.roles = denyAllRoles{}
	}
	if s.proposals == nil {
		var options []pmemory.Option
		if s.config.Expiry.Enabled {
			options = append(options, pmemory.WithTTL(s.config.Expiry.TTL))
		}
		s.proposals = pmemory.New(options...)
	}
	if s.ledger == nil {
		s.ledger = lmemory.New()
	}
	if s.resolver == nil {
		s.resolver = istatic.New(nil)
	}
}

// denyAllRoles is the fallback role checker: without a transport role lookup
// nobody is privileged.
type denyAllRoles struct{}

func (denyAllRoles) HasRole(context.Context, string, string) (bool, error) { return false, nil }

// HandleRequest forwards an inbound command request to the workflow engine.
func (s *Service) HandleRequest(ctx context.Context, req *transport.CommandRequest) error {
	return s.engine.HandleRequest(ctx, req)
}

// HandleDecision forwards an inbound decision to the workflow engine.
func (s *Service) HandleDecision(ctx context.Context, d *transport.Decision) error {
	return s.engine.HandleDecision(ctx, d)
}

// Start launches the optional expiry sweeper when enabled in the config.
// It is a no-op otherwise.
func (s *Service) Start(ctx context.Context) {
	if !s.config.Expiry.Enabled || s.stopSweep != nil {
		return
	}
	s.stopSweep = proposal.AutoExpire(ctx, s.proposals, s.engine.Expire, s.config.Expiry.SweepInterval)
}

// Shutdown stops the expiry sweeper if one is running.
func (s *Service) Shutdown() {
	if s.stopSweep != nil {
		s.stopSweep()
		s.stopSweep = nil
	}
}

// Engine returns the approval workflow engine.
func (s *Service) Engine() *engine.Service { return s.engine }

// Catalog returns the command catalog.
func (s *Service) Catalog() *command.Catalog { return s.catalog }

// Proposals returns the proposal registry.
func (s *Service) Proposals() proposal.Service { return s.proposals }

// Ledger returns the external ledger store.
func (s *Service) Ledger() ledger.Service { return s.ledger }
