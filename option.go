package giftgate

import (
	"github.com/vrctcg/giftgate/model/command"
	"github.com/vrctcg/giftgate/service/auth"
	"github.com/vrctcg/giftgate/service/dispatcher"
	"github.com/vrctcg/giftgate/service/identity"
	"github.com/vrctcg/giftgate/service/ledger"
	"github.com/vrctcg/giftgate/service/proposal"
	"github.com/vrctcg/giftgate/service/transport"
	"github.com/vrctcg/giftgate/tracing"
)

// Option customises the gate service.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithCatalog replaces the built-in command catalog.
func WithCatalog(catalog *command.Catalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithConn sets the chat transport connection.
func WithConn(conn transport.Conn) Option {
	return func(s *Service) { s.conn = conn }
}

// WithRoleChecker sets the transport role membership lookup.
func WithRoleChecker(roles auth.RoleChecker) Option {
	return func(s *Service) { s.roles = roles }
}

// WithProposalService replaces the default in-memory proposal registry.
func WithProposalService(svc proposal.Service) Option {
	return func(s *Service) { s.proposals = svc }
}

// WithLedger sets the external ledger store.
func WithLedger(store ledger.Service) Option {
	return func(s *Service) { s.ledger = store }
}

// WithResolver sets the identity resolver.
func WithResolver(resolver identity.Resolver) Option {
	return func(s *Service) { s.resolver = resolver }
}

// WithDispatcherOptions supplies additional options passed to
// dispatcher.New (e.g. overriding the inline report limit).
func WithDispatcherOptions(options ...dispatcher.Option) Option {
	return func(s *Service) {
		s.dispatcherOptions = append(s.dispatcherOptions, options...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. Safe to call multiple times - the first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
