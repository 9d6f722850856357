package proposal_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vrctcg/giftgate/internal/clock"
	"github.com/vrctcg/giftgate/model/command"
	"github.com/vrctcg/giftgate/service/messaging"
	"github.com/vrctcg/giftgate/service/proposal"
	pmemory "github.com/vrctcg/giftgate/service/proposal/memory"
)

// TestWaitForDecision verifies that WaitForDecision blocks until a decision
// for the watched proposal is published on the service queue.
func TestWaitForDecision(t *testing.T) {
	type testCase struct {
		name        string
		state       proposal.State
		expectError bool
		timeout     time.Duration
		decideDelay time.Duration
	}

	testCases := []testCase{{
		name:        "approved before timeout",
		state:       proposal.StateApproved,
		timeout:     500 * time.Millisecond,
		decideDelay: 10 * time.Millisecond,
	}, {
		name:        "rejected before timeout",
		state:       proposal.StateRejected,
		timeout:     500 * time.Millisecond,
		decideDelay: 10 * time.Millisecond,
	}, {
		name:        "timeout waiting for decision",
		state:       proposal.StateApproved, // irrelevant - decision never sent
		expectError: true,
		timeout:     50 * time.Millisecond,
		decideDelay: -1,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := pmemory.New()

			p := &proposal.Proposal{ID: "req-1", Kind: command.InspectLedger{}}
			assert.NoError(t, svc.Register(ctx, p))

			if tc.decideDelay >= 0 {
				go func() {
					time.Sleep(tc.decideDelay)
					decision := &proposal.Decision{ID: "req-1", State: tc.state, DecidedAt: clock.Now()}
					_ = svc.Queue().Publish(ctx, &proposal.Event{
						Topic: proposal.TopicProposalDecided,
						Data:  decision,
					})
				}()
			}

			decision, err := proposal.WaitForDecision(ctx, svc, "req-1", tc.timeout)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.state, decision.State)
		})
	}
}

func TestAutoExpire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := pmemory.New()

	expired := time.Now().Add(-time.Minute)
	overAge := &proposal.Proposal{ID: "old", Kind: command.InspectLedger{}, ExpiresAt: &expired}
	assert.NoError(t, svc.Register(ctx, overAge))

	fresh := &proposal.Proposal{ID: "fresh", Kind: command.InspectLedger{}}
	assert.NoError(t, svc.Register(ctx, fresh))

	var mu sync.Mutex
	var swept []string
	stop := proposal.AutoExpire(ctx, svc, func(_ context.Context, p *proposal.Proposal) {
		_, err := svc.Take(ctx, p.ID)
		if err != nil {
			return
		}
		mu.Lock()
		swept = append(swept, p.ID)
		mu.Unlock()
	}, 10*time.Millisecond)
	defer stop()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(swept) == 1 && swept[0] == "old"
	}, time.Second, 10*time.Millisecond)

	// proposal without a deadline is untouched
	_, err := svc.Get(ctx, "fresh")
	assert.NoError(t, err)
}

type failingRegistry struct{}

func (failingRegistry) Register(context.Context, *proposal.Proposal) error { return nil }

func (failingRegistry) Get(context.Context, string) (*proposal.Proposal, error) {
	return nil, proposal.ErrNotFound
}

func (failingRegistry) Take(context.Context, string) (*proposal.Proposal, error) {
	return nil, proposal.ErrNotFound
}

func (failingRegistry) ListPending(context.Context) ([]*proposal.Proposal, error) {
	return nil, fmt.Errorf("registry unavailable")
}

func (failingRegistry) Queue() messaging.Queue[proposal.Event] { return nil }

// A registry whose listing fails must not feed the sweep function and must
// keep the sweeper alive for the next tick.
func TestAutoExpireListFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var swept int32
	stop := proposal.AutoExpire(ctx, failingRegistry{}, func(context.Context, *proposal.Proposal) {
		atomic.AddInt32(&swept, 1)
	}, 5*time.Millisecond)
	defer stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&swept))
}
