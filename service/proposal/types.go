package proposal

import (
	"time"

	"github.com/vrctcg/giftgate/model/command"
)

// State of a proposal. Pending is the only state kept in the registry;
// Approved, Rejected and Expired are terminal and reported on the Decision.
type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
	StateExpired  State = "expired"
)

// Event envelope published on the registry queue.
type Event struct {
	Topic   string            // see topic constants below
	Data    interface{}       // *Proposal | *Decision
	Headers map[string]string `json:"headers,omitempty"` // optional - tenant, correlation-id etc.
}

// Standard event topics.
const (
	TopicProposalCreated = "proposal.created"
	TopicProposalDecided = "proposal.decided"
	TopicProposalExpired = "proposal.expired"
)

// Proposal represents one pending privileged action awaiting ratification.
// A proposal is registered exactly when a valid, authorized origin request
// arrives and removed exactly when it leaves the pending state.
type Proposal struct {
	ID         string       `json:"id"`         // request id; unique among pending proposals
	Kind       command.Kind `json:"-"`          // immutable once created
	Originator string       `json:"originator"` // actor that requested the action
	ChannelID  string       `json:"channelId"`  // channel the confirmation was posted to
	MessageID  string       `json:"messageId"`  // transport message carrying the decision controls
	State      State        `json:"state"`
	CreatedAt  time.Time    `json:"createdAt"`
	ExpiresAt  *time.Time   `json:"expiresAt,omitempty"` // optional deadline
}

// Decision records the terminal outcome of a proposal.
type Decision struct {
	ID        string    `json:"id"` // same as proposal.ID
	State     State     `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	DecidedBy string    `json:"decidedBy,omitempty"`
	DecidedAt time.Time `json:"decidedAt"`
}
