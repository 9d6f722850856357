// Package ledger abstracts the external gifted-items store. The core only
// issues absolute-value writes ("latest grant wins"): a write replaces the
// field outright, it never increments or merges, so concurrent approvals
// targeting the same path simply overwrite in arrival order.
package ledger

import (
	"context"
	"strings"
)

// Service is the external ledger store consumed by the execution dispatcher.
type Service interface {
	// Set writes value at the slash separated path as an absolute set.
	Set(ctx context.Context, path string, value interface{}) error

	// ReadAll returns a snapshot of the entire store.
	ReadAll(ctx context.Context) (map[string]interface{}, error)
}

// PackPath is the store location of a user's pack count.
func PackPath(displayName, packID string) string {
	return displayName + "/packs/" + packID
}

// CurrencyPath is the store location of a user's currency balance.
func CurrencyPath(displayName string) string {
	return displayName + "/currency"
}

// SplitPath splits a slash separated store path into its segments.
func SplitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
