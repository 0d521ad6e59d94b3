package interfaces

import (
	"github.com/heirloom-labs/heirloom/types"
)

// EvalContext is what a condition script sees at consumption time: the
// ledger height and the identity of the account attempting consumption,
// alongside the note's stored inputs.
type EvalContext struct {
	BlockHeight uint64
	Consumer    types.AccountID
	Inputs      types.NoteInputs
}

// Predicate is a compiled condition script. The ledger treats it as an
// opaque capability with a single question: may this consumption proceed.
// New condition kinds (multi-sig, multi-deadline) are added as new
// implementations without touching the orchestrator.
type Predicate interface {
	// Root is the script commitment referenced inside note recipients.
	Root() [32]byte

	// Evaluate decides a consumption attempt.
	Evaluate(ctx EvalContext) bool
}
