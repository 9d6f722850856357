// Package dispatcher applies an approved command to the external ledger
// store, or reports on it. Execution is synchronous and happens at most once
// per proposal: the workflow engine only dispatches a kind it has atomically
// claimed from the registry.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/viant/toolbox"
	"github.com/vrctcg/giftgate/model/command"
	"github.com/vrctcg/giftgate/service/identity"
	"github.com/vrctcg/giftgate/service/ledger"
	"github.com/vrctcg/giftgate/service/transport"
	"github.com/vrctcg/giftgate/tracing"
)

// DefaultInlineLimit is the largest ledger report delivered as inline text.
// Reports above it are attached as a downloadable file instead - a user
// interface fallback sized to typical chat message limits, not an error.
const DefaultInlineLimit = 1900

// AttachmentName is the file name of a spilled ledger report.
const AttachmentName = "gifted_data.json"

// Outcome is the user-visible result of an execution. Grants produce an
// empty outcome; reports carry either inline text or a file attachment.
type Outcome struct {
	Text       string
	Attachment *transport.Attachment
}

// Service executes approved commands.
type Service interface {
	Execute(ctx context.Context, kind command.Kind) (*Outcome, error)
}

type Option func(*service)

// WithInlineLimit overrides the inline report size threshold.
func WithInlineLimit(limit int) Option {
	return func(s *service) {
		if limit > 0 {
			s.inlineLimit = limit
		}
	}
}

type service struct {
	ledger      ledger.Service
	resolver    identity.Resolver
	inlineLimit int
}

// New creates a dispatcher over the given ledger store and identity resolver.
func New(store ledger.Service, resolver identity.Resolver, options ...Option) Service {
	ret := &service{
		ledger:      store,
		resolver:    resolver,
		inlineLimit: DefaultInlineLimit,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Execute applies kind to the ledger. Writes are absolute sets; the
// dispatcher never reads before writing and performs no merge.
func (s *service) Execute(ctx context.Context, kind command.Kind) (outcome *Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "dispatcher.execute", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"command": kind.Name()})

	switch c := kind.(type) {
	case command.GrantPack:
		return s.grantPack(ctx, c)
	case command.GrantPoints:
		return s.grantPoints(ctx, c)
	case command.InspectLedger:
		return s.inspect(ctx)
	default:
		return nil, fmt.Errorf("unsupported command %T", kind)
	}
}

func (s *service) grantPack(ctx context.Context, c command.GrantPack) (*Outcome, error) {
	// The catalog rejects amounts below 1 before a proposal is ever created;
	// re-check here so a hand-built kind cannot bypass it.
	if c.Amount < 1 {
		return nil, fmt.Errorf("amount must be at least 1")
	}
	displayName, err := s.resolver.DisplayName(ctx, c.User)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %v: %w", c.User, err)
	}
	if err = s.ledger.Set(ctx, ledger.PackPath(displayName, c.PackID), c.Amount); err != nil {
		return nil, err
	}
	return &Outcome{}, nil
}

func (s *service) grantPoints(ctx context.Context, c command.GrantPoints) (*Outcome, error) {
	if c.Amount < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}
	displayName, err := s.resolver.DisplayName(ctx, c.User)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %v: %w", c.User, err)
	}
	if err = s.ledger.Set(ctx, ledger.CurrencyPath(displayName), c.Amount); err != nil {
		return nil, err
	}
	return &Outcome{}, nil
}

func (s *service) inspect(ctx context.Context) (*Outcome, error) {
	snapshot, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	formatted, err := toolbox.AsIndentJSONText(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to format ledger: %w", err)
	}
	if len(formatted) > s.inlineLimit {
		return &Outcome{
			Text:       "Gifted data is too large to display here. Sending as a file.",
			Attachment: &transport.Attachment{Name: AttachmentName, Data: []byte(formatted)},
		}, nil
	}
	return &Outcome{Text: "```json\n" + formatted + "\n```"}, nil
}
