// Package identity resolves opaque transport user handles to the stable
// display names the ledger is keyed by.
package identity

import (
	"context"
	"errors"
)

// ErrUnknownUser is returned when a handle cannot be resolved.
var ErrUnknownUser = errors.New("identity: unknown user")

// Resolver resolves a user handle to a display name. Resolution may reach a
// remote service and can therefore fail; the dispatcher treats a failure as
// an execution error, never as a crash.
type Resolver interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}
