package ports

import "context"

// PendingDelete describes a delete awaiting user confirmation.
type PendingDelete struct {
	ID    string
	Email string
}

// Confirmer gates destructive operations. It blocks until the user answers and
// returns true to proceed.
type Confirmer func(ctx context.Context, req PendingDelete) bool

// AlwaysConfirm proceeds with every delete. Intended for non-interactive use.
func AlwaysConfirm(context.Context, PendingDelete) bool { return true }

// NeverConfirm declines every delete.
func NeverConfirm(context.Context, PendingDelete) bool { return false }
