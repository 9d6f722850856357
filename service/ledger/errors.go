package ledger

import "errors"

var (
	// ErrInvalidPath indicates an empty or malformed store path.
	ErrInvalidPath = errors.New("ledger: invalid path")
)
