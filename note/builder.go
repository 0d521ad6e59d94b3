// Package note builds vault notes: asset payload, discovery metadata and a
// cryptographic recipient binding serial number, condition script and
// script inputs.
package note

import (
	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/script"
	"github.com/heirloom-labs/heirloom/types"
)

// VaultUseCase is the discovery-tag use case shared by all vault notes.
const VaultUseCase uint16 = 0

// Builder constructs inheritance-vault notes. The condition script is
// compiled once at construction and reused for every note.
type Builder struct {
	script *script.CompiledScript
	words  interfaces.WordSource
}

// NewBuilder compiles the vault condition script and returns a builder
// drawing serial numbers from the given source.
func NewBuilder(words interfaces.WordSource) (*Builder, error) {
	compiled, err := script.CompileVault()
	if err != nil {
		return nil, err
	}
	return &Builder{script: compiled, words: words}, nil
}

// ScriptRoot returns the commitment of the compiled vault script.
func (b *Builder) ScriptRoot() [32]byte {
	return b.script.Root()
}

// Predicate exposes the compiled script for ledger registration.
func (b *Builder) Predicate() interfaces.Predicate {
	return b.script
}

// Build produces an immutable vault note: sender metadata, the asset
// payload, and a recipient whose inputs are the deadline plus the
// beneficiary's identifier halves. The note ID is deterministic in
// everything but the serial word, which is drawn fresh per call.
//
// The deadline must sit strictly above the current ledger height; callers
// are expected to leave margin for broadcast latency. faucet, when known,
// caps the amount at the declared maximum supply.
func (b *Builder) Build(
	sender types.AccountID,
	asset types.FungibleAsset,
	faucet *types.FaucetState,
	beneficiary types.AccountID,
	deadlineHeight uint64,
	currentHeight uint64,
) (types.Note, error) {
	if asset.Amount == 0 || asset.Amount > types.MaxFungibleAmount {
		return types.Note{}, errors.NewError(errors.ErrCodeInvalidAsset, errors.ErrMsgInvalidAsset)
	}
	if faucet != nil && asset.Amount > faucet.MaxSupply {
		return types.Note{}, errors.NewError(errors.ErrCodeInvalidAsset, errors.ErrMsgInvalidAsset)
	}
	if deadlineHeight <= currentHeight {
		return types.Note{}, errors.NewError(errors.ErrCodeInvalidDeadline, errors.ErrMsgInvalidDeadline)
	}

	inputs, err := script.VaultInputs(deadlineHeight, beneficiary)
	if err != nil {
		return types.Note{}, err
	}

	assets, err := types.NewNoteAssets([]types.FungibleAsset{asset})
	if err != nil {
		return types.Note{}, err
	}

	recipient := types.NewNoteRecipient(b.words.DrawWord(), b.script.Root(), inputs)
	metadata := types.NoteMetadata{
		Sender:        sender,
		NoteType:      types.NoteTypePublic,
		Tag:           types.TagForPublicUseCase(VaultUseCase, 0, types.ExecutionModeLocal),
		ExecutionHint: types.HintAlways(),
		Aux:           0,
	}
	return types.NewNote(assets, metadata, recipient), nil
}
