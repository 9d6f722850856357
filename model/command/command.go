package command

import "fmt"

// Kind is a validated privileged command. Implementations are value types;
// once produced by the catalog a Kind is immutable for the lifetime of the
// proposal that carries it.
type Kind interface {
	// Name returns the command name without the leading slash, e.g. "givepack".
	Name() string
	// Describe returns the canonical human-readable rendering of the command.
	// The rendering is deterministic - it is used both for the confirmation
	// prompt and the post-decision message and must match byte for byte.
	Describe() string
}

// GrantPack grants a number of card packs to a user. Amount defaults to 1
// when omitted from the originating request.
type GrantPack struct {
	User   string `json:"user"`
	PackID string `json:"packid"`
	Amount int    `json:"amount"`
}

func (GrantPack) Name() string { return "givepack" }

func (c GrantPack) Describe() string {
	return fmt.Sprintf("/givepack <@%s> %s %d", c.User, c.PackID, c.Amount)
}

// GrantPoints sets a user's currency balance.
type GrantPoints struct {
	User   string `json:"user"`
	Amount int    `json:"amount"`
}

func (GrantPoints) Name() string { return "givepoints" }

func (c GrantPoints) Describe() string {
	return fmt.Sprintf("/givepoints <@%s> %d", c.User, c.Amount)
}

// InspectLedger reports the entire gifted ledger.
type InspectLedger struct{}

func (InspectLedger) Name() string { return "checkgifts" }

func (InspectLedger) Describe() string { return "/checkgifts" }
