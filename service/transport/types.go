// Package transport defines the abstract chat surface the gate consumes. The
// core receives command requests and decisions from it and emits send/update
// message effects back; the concrete chat client (slash-command registration,
// gateway connection, credentials) lives outside this module.
package transport

// CommandRequest is an inbound privileged command request.
type CommandRequest struct {
	// ID identifies the request; it becomes the proposal id and must not
	// collide across concurrently pending proposals.
	ID         string                 `json:"id"`
	Command    string                 `json:"command"` // command name without the leading slash
	ActorID    string                 `json:"actorId"`
	ChannelID  string                 `json:"channelId"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// DecisionAction is the affordance a decider picked.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// Decision is an inbound ratification decision on a pending proposal.
type Decision struct {
	Action     DecisionAction `json:"action"`
	ProposalID string         `json:"proposalId"`
	ActorID    string         `json:"actorId"`
}

// Control is an interactive decision affordance bound to a proposal.
type Control struct {
	Action     DecisionAction `json:"action"`
	ProposalID string         `json:"proposalId"`
	Label      string         `json:"label"`
}

// Attachment is a downloadable file delivered alongside a message.
type Attachment struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Message is an outbound chat message effect. An Update with an empty
// Controls slice removes previously attached affordances.
type Message struct {
	Text        string       `json:"text"`
	Controls    []Control    `json:"controls,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
