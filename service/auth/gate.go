// Package auth evaluates whether an actor may originate or ratify a
// privileged command. The two checks are independent: holding the originator
// role does not imply approver privileges and vice versa. An actor holding
// both roles may approve their own proposal.
package auth

import (
	"context"
)

// RoleChecker queries role membership from the surrounding chat transport.
type RoleChecker interface {
	HasRole(ctx context.Context, actorID, roleID string) (bool, error)
}

// Config is the serialisable part of a Gate.
type Config struct {
	// ChannelID is the only channel privileged commands may originate from.
	ChannelID string `json:"channel" yaml:"channel"`
	// OriginatorRole is required to request a privileged command.
	OriginatorRole string `json:"originatorRole" yaml:"originatorRole"`
	// ApproverRole is required to approve or reject a pending proposal.
	ApproverRole string `json:"approverRole" yaml:"approverRole"`
}

// Gate authorizes origin requests and approval decisions.
type Gate struct {
	config Config
	roles  RoleChecker
}

// New creates a gate backed by the supplied role checker.
func New(roles RoleChecker, config Config) *Gate {
	return &Gate{roles: roles, config: config}
}

// Config returns the gate configuration.
func (g *Gate) Config() Config { return g.config }

// InChannel reports whether channelID is the designated origin channel.
func (g *Gate) InChannel(channelID string) bool {
	return channelID == g.config.ChannelID
}

// AuthorizeOrigin reports whether actor may request a privileged command from
// the given channel. A false result is a normal denial outcome, not an error;
// an error indicates the role lookup itself failed and counts as a denial.
func (g *Gate) AuthorizeOrigin(ctx context.Context, actorID, channelID string) (bool, error) {
	if !g.InChannel(channelID) {
		return false, nil
	}
	return g.roles.HasRole(ctx, actorID, g.config.OriginatorRole)
}

// AuthorizeApproval reports whether actor may decide a pending proposal.
// No channel restriction applies to decisions; if the surrounding transport
// enforces one that is a policy choice external to this gate.
func (g *Gate) AuthorizeApproval(ctx context.Context, actorID string) (bool, error) {
	return g.roles.HasRole(ctx, actorID, g.config.ApproverRole)
}
