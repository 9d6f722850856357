package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrctcg/giftgate/model/command"
	"github.com/vrctcg/giftgate/service/auth"
	"github.com/vrctcg/giftgate/service/dispatcher"
	istatic "github.com/vrctcg/giftgate/service/identity/static"
	lmemory "github.com/vrctcg/giftgate/service/ledger/memory"
	"github.com/vrctcg/giftgate/service/proposal"
	pmemory "github.com/vrctcg/giftgate/service/proposal/memory"
	"github.com/vrctcg/giftgate/service/transport"
	tmemory "github.com/vrctcg/giftgate/service/transport/memory"
)

type roleTable map[string][]string

func (r roleTable) HasRole(_ context.Context, actorID, roleID string) (bool, error) {
	for _, role := range r[actorID] {
		if role == roleID {
			return true, nil
		}
	}
	return false, nil
}

type fixture struct {
	engine    *Service
	conn      *tmemory.Conn
	proposals proposal.Service
	store     *lmemory.Service
}

func newFixture() *fixture {
	roles := roleTable{
		"admin-1":    {"origin"},
		"approver-1": {"decide"},
		"approver-2": {"decide"},
		"both-1":     {"origin", "decide"},
	}
	gate := auth.New(roles, auth.Config{
		ChannelID:      "C1",
		OriginatorRole: "origin",
		ApproverRole:   "decide",
	})
	store := lmemory.New()
	resolver := istatic.New(map[string]string{"U1": "Alice", "U2": "Bob"})
	conn := tmemory.New()
	proposals := pmemory.New()
	engine := New(command.NewCatalog(), gate, proposals,
		dispatcher.New(store, resolver), conn)
	return &fixture{engine: engine, conn: conn, proposals: proposals, store: store}
}

func grantRequest(id, actorID, channelID string) *transport.CommandRequest {
	return &transport.CommandRequest{
		ID:        id,
		Command:   "givepack",
		ActorID:   actorID,
		ChannelID: channelID,
		Parameters: map[string]interface{}{
			"user":   "U1",
			"packid": "starter",
			"amount": 3,
		},
	}
}

func TestHandleRequest(t *testing.T) {
	type testCase struct {
		name          string
		request       *transport.CommandRequest
		wantProposal  bool
		wantWhisper   string
		wantSentCount int
	}

	testCases := []testCase{
		{
			name:          "authorized originator in channel",
			request:       grantRequest("req-1", "admin-1", "C1"),
			wantProposal:  true,
			wantSentCount: 1,
		},
		{
			name:        "wrong channel",
			request:     grantRequest("req-1", "admin-1", "C2"),
			wantWhisper: "This command can only be used in the specified channel.",
		},
		{
			name:        "missing originator role",
			request:     grantRequest("req-1", "approver-1", "C1"),
			wantWhisper: "You do not have permission to use this command.",
		},
		{
			name: "invalid parameters never reach authorization",
			request: &transport.CommandRequest{
				ID: "req-1", Command: "givepack", ActorID: "admin-1", ChannelID: "C1",
				Parameters: map[string]interface{}{"packid": "starter"},
			},
		},
		{
			name: "unknown command",
			request: &transport.CommandRequest{
				ID: "req-1", Command: "shutdown", ActorID: "admin-1", ChannelID: "C1",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()

			assert.NoError(t, f.engine.HandleRequest(ctx, tc.request))

			_, err := f.proposals.Get(ctx, "req-1")
			if tc.wantProposal {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, proposal.ErrNotFound)
			}
			assert.Len(t, f.conn.Sent(), tc.wantSentCount)
			if tc.wantWhisper != "" {
				whispers := f.conn.Whispers()
				if assert.Len(t, whispers, 1) {
					assert.Equal(t, tc.request.ActorID, whispers[0].ActorID)
					assert.Equal(t, tc.wantWhisper, whispers[0].Text)
				}
			}
		})
	}
}

func TestHandleRequestConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))

	sent := f.conn.Sent()
	if !assert.Len(t, sent, 1) {
		return
	}
	assert.Equal(t, "C1", sent[0].ChannelID)
	assert.Equal(t,
		"Proposed command: /givepack <@U1> starter 3\nAwaiting approval from <@&decide>.",
		sent[0].Message.Text)
	if assert.Len(t, sent[0].Message.Controls, 2) {
		assert.Equal(t, transport.ActionApprove, sent[0].Message.Controls[0].Action)
		assert.Equal(t, transport.ActionReject, sent[0].Message.Controls[1].Action)
		assert.Equal(t, "req-1", sent[0].Message.Controls[0].ProposalID)
	}

	registered, err := f.proposals.Get(ctx, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, "admin-1", registered.Originator)
	assert.Equal(t, sent[0].ID, registered.MessageID)
}

func TestHandleDecisionApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))
	messageID := f.conn.Sent()[0].ID

	decision := &transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"}
	assert.NoError(t, f.engine.HandleDecision(ctx, decision))

	// exactly one ledger write, confirmation rewritten without controls
	assert.Equal(t, 1, f.store.Writes())
	update := f.conn.LastUpdate(messageID)
	if assert.NotNil(t, update) {
		assert.Equal(t, "Command approved and executed: /givepack <@U1> starter 3", update.Text)
		assert.Empty(t, update.Controls)
	}

	// a second decision on the same proposal is stale, no further write
	assert.NoError(t, f.engine.HandleDecision(ctx, decision))
	assert.Equal(t, 1, f.store.Writes())
	whispers := f.conn.Whispers()
	if assert.Len(t, whispers, 1) {
		assert.Equal(t, "This command proposal has expired or was already processed.", whispers[0].Text)
	}
}

func TestHandleDecisionReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))
	messageID := f.conn.Sent()[0].ID

	decision := &transport.Decision{Action: transport.ActionReject, ProposalID: "req-1", ActorID: "approver-1"}
	assert.NoError(t, f.engine.HandleDecision(ctx, decision))

	assert.Equal(t, 0, f.store.Writes())
	update := f.conn.LastUpdate(messageID)
	if assert.NotNil(t, update) {
		assert.Equal(t, "Command rejected: /givepack <@U1> starter 3", update.Text)
		assert.Empty(t, update.Controls)
	}

	// once rejected the proposal cannot be approved anymore
	assert.NoError(t, f.engine.HandleDecision(ctx,
		&transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"}))
	assert.Equal(t, 0, f.store.Writes())
}

func TestHandleDecisionUnauthorized(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))

	decision := &transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "admin-1"}
	assert.NoError(t, f.engine.HandleDecision(ctx, decision))

	// proposal survives an unauthorized decision attempt
	_, err := f.proposals.Get(ctx, "req-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, f.store.Writes())
	whispers := f.conn.Whispers()
	if assert.Len(t, whispers, 1) {
		assert.Equal(t, "You do not have permission to approve or reject commands.", whispers[0].Text)
	}
}

func TestHandleDecisionUnknownAction(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))

	err := f.engine.HandleDecision(ctx,
		&transport.Decision{Action: "escalate", ProposalID: "req-1", ActorID: "approver-1"})
	assert.Error(t, err)

	// the proposal is untouched by a malformed decision
	_, err = f.proposals.Get(ctx, "req-1")
	assert.NoError(t, err)
}

// An actor holding both roles may decide their own proposal.
func TestSelfApproval(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "both-1", "C1")))

	assert.NoError(t, f.engine.HandleDecision(ctx,
		&transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "both-1"}))
	assert.Equal(t, 1, f.store.Writes())
}

func TestHandleDecisionExecutionFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// unresolvable target user makes execution fail after approval
	req := grantRequest("req-1", "admin-1", "C1")
	req.Parameters["user"] = "ghost"
	assert.NoError(t, f.engine.HandleRequest(ctx, req))
	messageID := f.conn.Sent()[0].ID

	assert.NoError(t, f.engine.HandleDecision(ctx,
		&transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"}))

	assert.Equal(t, 0, f.store.Writes())
	update := f.conn.LastUpdate(messageID)
	if assert.NotNil(t, update) {
		assert.True(t, strings.HasPrefix(update.Text, "Error executing command: "))
	}

	// the failed proposal is consumed - no retry
	assert.NoError(t, f.engine.HandleDecision(ctx,
		&transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"}))
	assert.Equal(t, 0, f.store.Writes())
}

func TestApprovedInspectDeliversReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	req := &transport.CommandRequest{ID: "req-1", Command: "checkgifts", ActorID: "admin-1", ChannelID: "C1"}
	assert.NoError(t, f.engine.HandleRequest(ctx, req))
	assert.NoError(t, f.engine.HandleDecision(ctx,
		&transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"}))

	sent := f.conn.Sent()
	if assert.Len(t, sent, 2) {
		assert.True(t, strings.HasPrefix(sent[1].Message.Text, "```json\n"))
	}
}

// Two concurrent deciders on the same proposal: exactly one claims it, so the
// ledger is written at most once regardless of the approve/reject interleaving.
func TestConcurrentDecisions(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		f := newFixture()
		assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))

		var wg sync.WaitGroup
		decisions := []*transport.Decision{
			{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"},
			{Action: transport.ActionReject, ProposalID: "req-1", ActorID: "approver-2"},
		}
		for _, d := range decisions {
			wg.Add(1)
			go func(d *transport.Decision) {
				defer wg.Done()
				assert.NoError(t, f.engine.HandleDecision(ctx, d))
			}(d)
		}
		wg.Wait()

		// the loser always learns the proposal was already processed
		whispers := f.conn.Whispers()
		assert.Len(t, whispers, 1)
		assert.LessOrEqual(t, f.store.Writes(), 1)
		_, err := f.proposals.Get(ctx, "req-1")
		assert.ErrorIs(t, err, proposal.ErrNotFound)
	}
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.NoError(t, f.engine.HandleRequest(ctx, grantRequest("req-1", "admin-1", "C1")))
	messageID := f.conn.Sent()[0].ID

	stale, err := f.proposals.Get(ctx, "req-1")
	assert.NoError(t, err)
	f.engine.Expire(ctx, stale)

	_, err = f.proposals.Get(ctx, "req-1")
	assert.ErrorIs(t, err, proposal.ErrNotFound)
	update := f.conn.LastUpdate(messageID)
	if assert.NotNil(t, update) {
		assert.Equal(t, "Command proposal expired: /givepack <@U1> starter 3", update.Text)
	}

	// expiring an already consumed proposal is a no-op
	f.engine.Expire(ctx, stale)
	assert.Len(t, f.conn.Updates(messageID), 1)

	// a decision after expiry is stale
	assert.NoError(t, f.engine.HandleDecision(ctx,
		&transport.Decision{Action: transport.ActionApprove, ProposalID: "req-1", ActorID: "approver-1"}))
	assert.Equal(t, 0, f.store.Writes())
}
