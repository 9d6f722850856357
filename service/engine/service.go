// Package engine orchestrates the proposal-approval-execution workflow:
// validate an origin request, authorize it, register a proposal and emit the
// confirmation; on a decision, authorize the approver, atomically claim the
// proposal and either dispatch execution or discard it. Each inbound event is
// processed to completion before the outcome is visible, so a proposal can
// transition out of pending at most once.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vrctcg/giftgate/internal/clock"
	"github.com/vrctcg/giftgate/internal/idgen"
	"github.com/vrctcg/giftgate/model/command"
	"github.com/vrctcg/giftgate/service/auth"
	"github.com/vrctcg/giftgate/service/dispatcher"
	"github.com/vrctcg/giftgate/service/proposal"
	"github.com/vrctcg/giftgate/service/transport"
	"github.com/vrctcg/giftgate/tracing"
)

// User-visible renderings. The command description inside them comes from
// Kind.Describe and therefore matches the confirmation prompt byte for byte.
const (
	channelDeniedText  = "This command can only be used in the specified channel."
	originDeniedText   = "You do not have permission to use this command."
	approverDeniedText = "You do not have permission to approve or reject commands."
	staleProposalText  = "This command proposal has expired or was already processed."
)

// Service is the approval workflow engine.
type Service struct {
	catalog    *command.Catalog
	gate       *auth.Gate
	proposals  proposal.Service
	dispatcher dispatcher.Service
	conn       transport.Conn
}

// New creates a workflow engine over the supplied collaborators.
func New(catalog *command.Catalog, gate *auth.Gate, proposals proposal.Service,
	dispatch dispatcher.Service, conn transport.Conn) *Service {
	return &Service{
		catalog:    catalog,
		gate:       gate,
		proposals:  proposals,
		dispatcher: dispatch,
		conn:       conn,
	}
}

// HandleRequest processes an inbound command request. Validation and
// authorization failures are contained: they surface as notes to the actor
// and never create a proposal. A non-nil error indicates effect delivery
// failed, not a workflow outcome.
func (s *Service) HandleRequest(ctx context.Context, req *transport.CommandRequest) (err error) {
	ctx, span := tracing.StartSpan(ctx, "engine.request", "CONSUMER")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"command": req.Command, "actor": req.ActorID})

	kind, parseErr := s.catalog.Parse(req.Command, req.Parameters)
	if parseErr != nil {
		s.whisper(ctx, req.ActorID, parseErr.Error())
		return nil
	}

	allowed, authErr := s.gate.AuthorizeOrigin(ctx, req.ActorID, req.ChannelID)
	if authErr != nil {
		log.Printf("role lookup failed for %v: %v", req.ActorID, authErr)
		allowed = false
	}
	if !allowed {
		text := originDeniedText
		if !s.gate.InChannel(req.ChannelID) {
			text = channelDeniedText
		}
		s.whisper(ctx, req.ActorID, text)
		return nil
	}

	id := req.ID
	if id == "" {
		id = idgen.New()
	}
	confirmation := fmt.Sprintf("Proposed command: %s\nAwaiting approval from <@&%s>.",
		kind.Describe(), s.gate.Config().ApproverRole)
	messageID, sendErr := s.conn.Send(ctx, req.ChannelID, &transport.Message{
		Text: confirmation,
		Controls: []transport.Control{
			{Action: transport.ActionApprove, ProposalID: id, Label: "Approve"},
			{Action: transport.ActionReject, ProposalID: id, Label: "Reject"},
		},
	})
	if sendErr != nil {
		// Without a confirmation message there are no decision affordances;
		// registering the proposal would strand it.
		return fmt.Errorf("failed to send confirmation: %w", sendErr)
	}

	return s.proposals.Register(ctx, &proposal.Proposal{
		ID:         id,
		Kind:       kind,
		Originator: req.ActorID,
		ChannelID:  req.ChannelID,
		MessageID:  messageID,
	})
}

// HandleDecision processes an inbound approve/reject decision. The registry
// Take is the single point of mutual exclusion: of two racing deciders
// exactly one claims the proposal, the other is told it was already
// processed.
func (s *Service) HandleDecision(ctx context.Context, d *transport.Decision) (err error) {
	ctx, span := tracing.StartSpan(ctx, "engine.decision", "CONSUMER")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"action": string(d.Action), "proposal": d.ProposalID})

	if d.Action != transport.ActionApprove && d.Action != transport.ActionReject {
		return fmt.Errorf("unknown decision action %v", d.Action)
	}

	allowed, authErr := s.gate.AuthorizeApproval(ctx, d.ActorID)
	if authErr != nil {
		log.Printf("role lookup failed for %v: %v", d.ActorID, authErr)
		allowed = false
	}
	if !allowed {
		// No proposal lookup for an unauthorized decider.
		s.whisper(ctx, d.ActorID, approverDeniedText)
		return nil
	}

	p, takeErr := s.proposals.Take(ctx, d.ProposalID)
	if errors.Is(takeErr, proposal.ErrNotFound) {
		s.whisper(ctx, d.ActorID, staleProposalText)
		return nil
	}
	if takeErr != nil {
		return takeErr
	}

	switch d.Action {
	case transport.ActionApprove:
		outcome, execErr := s.dispatcher.Execute(ctx, p.Kind)
		if execErr != nil {
			// The proposal stays removed: no retry, no silent re-pend.
			s.update(ctx, p.MessageID, fmt.Sprintf("Error executing command: %v", execErr))
			s.publishDecision(ctx, p.ID, proposal.StateApproved, d.ActorID, execErr.Error())
			return nil
		}
		s.update(ctx, p.MessageID, "Command approved and executed: "+p.Kind.Describe())
		s.deliver(ctx, p.ChannelID, outcome)
		s.publishDecision(ctx, p.ID, proposal.StateApproved, d.ActorID, "")
	case transport.ActionReject:
		s.update(ctx, p.MessageID, "Command rejected: "+p.Kind.Describe())
		s.publishDecision(ctx, p.ID, proposal.StateRejected, d.ActorID, "")
	}
	return nil
}

// Expire transitions an over-age proposal out of pending. It is wired as the
// AutoExpire sweep function; a proposal decided between the sweep's listing
// and the Take is simply skipped.
func (s *Service) Expire(ctx context.Context, stale *proposal.Proposal) {
	p, err := s.proposals.Take(ctx, stale.ID)
	if err != nil {
		return
	}
	s.update(ctx, p.MessageID, "Command proposal expired: "+p.Kind.Describe())
	decision := &proposal.Decision{
		ID:        p.ID,
		State:     proposal.StateExpired,
		Reason:    "expired",
		DecidedAt: clock.Now(),
	}
	if err := s.proposals.Queue().Publish(ctx, &proposal.Event{Topic: proposal.TopicProposalExpired, Data: decision}); err != nil {
		log.Printf("failed to publish expiry event for %v: %v", p.ID, err)
	}
}

func (s *Service) publishDecision(ctx context.Context, id string, state proposal.State, actorID, reason string) {
	decision := &proposal.Decision{
		ID:        id,
		State:     state,
		Reason:    reason,
		DecidedBy: actorID,
		DecidedAt: clock.Now(),
	}
	if err := s.proposals.Queue().Publish(ctx, &proposal.Event{Topic: proposal.TopicProposalDecided, Data: decision}); err != nil {
		log.Printf("failed to publish decision event for %v: %v", id, err)
	}
}

// update replaces a confirmation message and removes its decision
// affordances. Delivery is best-effort.
func (s *Service) update(ctx context.Context, messageID, text string) {
	err := s.conn.Update(ctx, messageID, &transport.Message{Text: text, Controls: []transport.Control{}})
	if err != nil {
		log.Printf("failed to update message %v: %v", messageID, err)
	}
}

// deliver posts an execution outcome (inline report or file attachment) as a
// follow-up message. Delivery is best-effort.
func (s *Service) deliver(ctx context.Context, channelID string, outcome *dispatcher.Outcome) {
	if outcome == nil || (outcome.Text == "" && outcome.Attachment == nil) {
		return
	}
	msg := &transport.Message{Text: outcome.Text}
	if outcome.Attachment != nil {
		msg.Attachments = []transport.Attachment{*outcome.Attachment}
	}
	if _, err := s.conn.Send(ctx, channelID, msg); err != nil {
		log.Printf("failed to deliver outcome to %v: %v", channelID, err)
	}
}

// whisper sends an ephemeral note to a single actor. Delivery is best-effort.
func (s *Service) whisper(ctx context.Context, actorID, text string) {
	if err := s.conn.Whisper(ctx, actorID, text); err != nil {
		log.Printf("failed to whisper to %v: %v", actorID, err)
	}
}
