package memory

import (
	"time"

	"github.com/vrctcg/giftgate/service/messaging"
	"github.com/vrctcg/giftgate/service/proposal"
)

type Option func(*service)

// WithEventQueue replaces the default in-memory lifecycle event queue.
func WithEventQueue(q messaging.Queue[proposal.Event]) Option {
	return func(s *service) { s.events = q }
}

// WithTTL stamps every newly registered proposal with an expiry deadline.
// The deadline only takes effect when an AutoExpire sweeper is running;
// without one proposals still live until explicitly decided.
func WithTTL(ttl time.Duration) Option {
	return func(s *service) { s.ttl = ttl }
}
