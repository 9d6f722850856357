package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vrctcg/giftgate/service/transport"
)

// Sent records one posted channel message.
type Sent struct {
	ID        string
	ChannelID string
	Message   *transport.Message
}

// Whisper records one ephemeral note.
type Whisper struct {
	ActorID string
	Text    string
}

// Conn is a recording transport used in tests and as the zero-dependency
// default. It assigns sequential message ids and keeps the latest content of
// every message, including updates.
type Conn struct {
	mu       sync.Mutex
	seq      int
	sent     []Sent
	updates  map[string][]*transport.Message
	whispers []Whisper
}

func New() *Conn {
	return &Conn{updates: map[string][]*transport.Message{}}
}

func (c *Conn) Send(_ context.Context, channelID string, msg *transport.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := fmt.Sprintf("msg-%d", c.seq)
	c.sent = append(c.sent, Sent{ID: id, ChannelID: channelID, Message: msg})
	return id, nil
}

func (c *Conn) Update(_ context.Context, messageID string, msg *transport.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates[messageID] = append(c.updates[messageID], msg)
	return nil
}

func (c *Conn) Whisper(_ context.Context, actorID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.whispers = append(c.whispers, Whisper{ActorID: actorID, Text: text})
	return nil
}

// Sent returns all channel messages posted so far.
func (c *Conn) Sent() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Sent, len(c.sent))
	copy(out, c.sent)
	return out
}

// Updates returns all updates applied to the given message.
func (c *Conn) Updates(messageID string) []*transport.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*transport.Message(nil), c.updates[messageID]...)
}

// LastUpdate returns the most recent update of the given message, or nil.
func (c *Conn) LastUpdate(messageID string) *transport.Message {
	updates := c.Updates(messageID)
	if len(updates) == 0 {
		return nil
	}
	return updates[len(updates)-1]
}

// Whispers returns all ephemeral notes delivered so far.
func (c *Conn) Whispers() []Whisper {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Whisper, len(c.whispers))
	copy(out, c.whispers)
	return out
}

var _ transport.Conn = (*Conn)(nil)
