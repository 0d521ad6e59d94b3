package types

import (
	"encoding/hex"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/heirloom-labs/heirloom/errors"
	"golang.org/x/crypto/blake2b"
)

// NoteType is the on-ledger visibility of a note.
type NoteType uint8

const (
	NoteTypePublic NoteType = iota
	NoteTypePrivate
)

// NoteExecutionMode states where a consuming transaction is expected to be
// executed.
type NoteExecutionMode uint8

const (
	ExecutionModeLocal NoteExecutionMode = iota
	ExecutionModeNetwork
)

// NoteTag is the discovery tag consumers filter synced notes by.
type NoteTag uint32

// TagForPublicUseCase builds a tag from a use-case id and payload, with the
// execution mode folded into the top bits.
func TagForPublicUseCase(useCase uint16, payload uint16, mode NoteExecutionMode) NoteTag {
	return NoteTag(uint32(mode)<<30 | uint32(useCase)<<16 | uint32(payload))
}

// NoteExecutionHint tells consumers when a note is expected to become
// executable. HintAlways marks eager consumption; HintAfterBlock defers it.
type NoteExecutionHint uint64

const hintAfterBlockFlag = uint64(1) << 63

func HintAlways() NoteExecutionHint {
	return 0
}

func HintAfterBlock(height uint64) NoteExecutionHint {
	return NoteExecutionHint(hintAfterBlockFlag | height)
}

// NoteMetadata carries the sender identity and discovery fields of a note.
type NoteMetadata struct {
	Sender        AccountID         `json:"sender"`
	NoteType      NoteType          `json:"note_type"`
	Tag           NoteTag           `json:"tag"`
	ExecutionHint NoteExecutionHint `json:"execution_hint"`
	Aux           Felt              `json:"aux"`
}

// MaxNoteInputs bounds the script-input vector.
const MaxNoteInputs = 128

// NoteInputs is the ordered felt vector handed to the condition script.
// Position and typing are part of the wire contract.
type NoteInputs []Felt

// NewNoteInputs validates the input vector length.
func NewNoteInputs(inputs []Felt) (NoteInputs, error) {
	if len(inputs) > MaxNoteInputs {
		return nil, errors.NewError(errors.ErrCodeMalformedNote, errors.ErrMsgMalformedNote)
	}
	out := make(NoteInputs, len(inputs))
	copy(out, inputs)
	return out, nil
}

// Commitment hashes the inputs into a single digest.
func (in NoteInputs) Commitment() [32]byte {
	h := mimc.NewMiMC()
	writeFelt(h, Felt(len(in)))
	for _, f := range in {
		writeFelt(h, f)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NoteAssets is the non-empty asset payload of a note.
type NoteAssets []FungibleAsset

// NewNoteAssets validates the payload: at least one asset, one entry per
// issuing faucet.
func NewNoteAssets(assets []FungibleAsset) (NoteAssets, error) {
	if len(assets) == 0 {
		return nil, errors.NewError(errors.ErrCodeInvalidAsset, "note must carry at least one asset")
	}
	seen := make(map[string]bool, len(assets))
	for _, a := range assets {
		key := a.FaucetID.String()
		if seen[key] {
			return nil, errors.NewError(errors.ErrCodeInvalidAsset, "duplicate faucet in note assets")
		}
		seen[key] = true
	}
	out := make(NoteAssets, len(assets))
	copy(out, assets)
	return out, nil
}

// Commitment hashes the asset list into a single digest.
func (na NoteAssets) Commitment() [32]byte {
	h := mimc.NewMiMC()
	writeFelt(h, Felt(len(na)))
	for _, a := range na {
		writeFelt(h, a.FaucetID.Prefix())
		writeFelt(h, a.FaucetID.Suffix())
		writeFelt(h, Felt(a.Amount))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NoteRecipient binds a serial number, a compiled script and the script's
// inputs. Notes with equal assets and recipient are indistinguishable, so
// the serial number is the sole anti-collision term.
type NoteRecipient struct {
	SerialNum  Word       `json:"serial_num"`
	ScriptRoot [32]byte   `json:"script_root"`
	Inputs     NoteInputs `json:"inputs"`
}

func NewNoteRecipient(serialNum Word, scriptRoot [32]byte, inputs NoteInputs) NoteRecipient {
	return NoteRecipient{SerialNum: serialNum, ScriptRoot: scriptRoot, Inputs: inputs}
}

// Digest commits to all three recipient parts.
func (r NoteRecipient) Digest() [32]byte {
	h := mimc.NewMiMC()
	for _, f := range r.SerialNum {
		writeFelt(h, f)
	}
	writeReduced(h, r.ScriptRoot[:])
	inputs := r.Inputs.Commitment()
	writeReduced(h, inputs[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NoteIDSize is the width of a note identifier digest.
const NoteIDSize = 32

// NoteID is the deterministic identifier of a note, derived from its assets
// and recipient. It is the lookup key for consumption.
type NoteID [NoteIDSize]byte

func (id NoteID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

// ParseNoteID decodes the 0x-prefixed form produced by Hex.
func ParseNoteID(s string) (NoteID, error) {
	if len(s) != 2+2*NoteIDSize || s[0] != '0' || s[1] != 'x' {
		return NoteID{}, errors.NewError(errors.ErrCodeMalformedRequest, "note id has wrong length")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return NoteID{}, errors.NewError(errors.ErrCodeMalformedRequest, "note id is not valid hex")
	}
	var id NoteID
	copy(id[:], raw)
	return id, nil
}

// Nullifier is the ledger-side consumption marker of a note.
type Nullifier [32]byte

func (n Nullifier) Hex() string {
	return "0x" + hex.EncodeToString(n[:])
}

// Note is an immutable asset-bearing ledger object, consumable exactly once
// under its recipient's condition script.
type Note struct {
	Assets    NoteAssets    `json:"assets"`
	Metadata  NoteMetadata  `json:"metadata"`
	Recipient NoteRecipient `json:"recipient"`
}

func NewNote(assets NoteAssets, metadata NoteMetadata, recipient NoteRecipient) Note {
	return Note{Assets: assets, Metadata: metadata, Recipient: recipient}
}

// ID derives the note identifier from the asset commitment and recipient
// digest. Metadata does not participate, matching the lookup contract.
func (n Note) ID() NoteID {
	assets := n.Assets.Commitment()
	recipient := n.Recipient.Digest()
	return NoteID(blake2b.Sum256(append(assets[:], recipient[:]...)))
}

// Nullifier derives the consumption marker. Unlike the ID it mixes in the
// serial number directly, so it stays unlinkable to the ID for private
// notes.
func (n Note) Nullifier() Nullifier {
	assets := n.Assets.Commitment()
	inputs := n.Recipient.Inputs.Commitment()

	buf := make([]byte, 0, 128)
	buf = append(buf, n.Recipient.SerialNum.Bytes()...)
	buf = append(buf, n.Recipient.ScriptRoot[:]...)
	buf = append(buf, inputs[:]...)
	buf = append(buf, assets[:]...)
	return Nullifier(blake2b.Sum256(buf))
}

// writeFelt feeds one felt into a mimc hasher as a canonical field element.
func writeFelt(h interface{ Write(p []byte) (int, error) }, f Felt) {
	b := f.Bytes32()
	_, _ = h.Write(b[:])
}

// writeReduced feeds an arbitrary 32-byte digest after reduction into the
// scalar field, as mimc only accepts canonical elements.
func writeReduced(h interface{ Write(p []byte) (int, error) }, digest []byte) {
	var e fr.Element
	e.SetBytes(digest)
	b := e.Bytes()
	_, _ = h.Write(b[:])
}
