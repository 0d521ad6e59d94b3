package script

import (
	"github.com/heirloom-labs/heirloom/types"
)

// Positional layout of the vault script's inputs. Order and typing are part
// of the wire contract; the script reads them by index.
const (
	InputDeadlineHeight    = 0
	InputBeneficiarySuffix = 1
	InputBeneficiaryPrefix = 2
)

// VaultScriptSource is the inheritance-vault condition: consumption is
// allowed once the ledger height has reached the deadline, and only for the
// account whose identifier halves match the stored beneficiary.
const VaultScriptSource = `
# inheritance vault condition
push.ctx.height
push.input.0          # deadline height
gte                   # height >= deadline
push.ctx.suffix
push.input.1          # beneficiary suffix
eq
push.ctx.prefix
push.input.2          # beneficiary prefix
eq
and
and
assert
`

// CompileVault compiles the vault condition script.
func CompileVault() (*CompiledScript, error) {
	return Compile(VaultScriptSource)
}

// VaultInputs builds the input vector for a vault note: the deadline and
// the beneficiary identity, in the layout the script expects.
func VaultInputs(deadlineHeight uint64, beneficiary types.AccountID) (types.NoteInputs, error) {
	return types.NewNoteInputs([]types.Felt{
		types.Felt(deadlineHeight),
		beneficiary.Suffix(),
		beneficiary.Prefix(),
	})
}
