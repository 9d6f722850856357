package transport

import "context"

// Conn delivers message effects to the chat surface. Implementations are
// best-effort: the engine logs delivery failures and never retries them.
type Conn interface {
	// Send posts a message to a channel and returns its message id.
	Send(ctx context.Context, channelID string, msg *Message) (string, error)

	// Update replaces the content of a previously sent message.
	Update(ctx context.Context, messageID string, msg *Message) error

	// Whisper sends an ephemeral note visible only to the given actor.
	Whisper(ctx context.Context, actorID, text string) error
}
