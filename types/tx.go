package types

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/heirloom-labs/heirloom/errors"
	"golang.org/x/crypto/blake2b"
)

// InputNote references a note a transaction wants to consume. An
// unauthenticated input is looked up on the ledger by content; the consumer
// does not need to have tracked it locally beforehand.
type InputNote struct {
	Note          Note `json:"note"`
	Authenticated bool `json:"authenticated"`
}

// TransactionRequest is a state-transition request: notes to create and
// notes to consume, executed against a single account.
type TransactionRequest struct {
	OutputNotes []Note      `json:"output_notes,omitempty"`
	InputNotes  []InputNote `json:"input_notes,omitempty"`
}

// WithOwnOutputNotes declares newly created notes owned by the submitting
// account.
func (r TransactionRequest) WithOwnOutputNotes(notes ...Note) TransactionRequest {
	r.OutputNotes = append(r.OutputNotes, notes...)
	return r
}

// WithUnauthenticatedInputNotes declares content-referenced notes to
// consume.
func (r TransactionRequest) WithUnauthenticatedInputNotes(notes ...Note) TransactionRequest {
	for _, n := range notes {
		r.InputNotes = append(r.InputNotes, InputNote{Note: n})
	}
	return r
}

// Validate rejects empty requests before they reach the ledger.
func (r TransactionRequest) Validate() error {
	if len(r.OutputNotes) == 0 && len(r.InputNotes) == 0 {
		return errors.NewError(errors.ErrCodeMalformedRequest, "transaction declares no notes")
	}
	return nil
}

// TransactionID identifies an accepted transaction.
type TransactionID [32]byte

func (id TransactionID) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

// DeriveTransactionID fixes the identifier of an accepted request: the
// executing account, the note set and the acceptance height.
func DeriveTransactionID(account AccountID, req TransactionRequest, height uint64) TransactionID {
	h, _ := blake2b.New256(nil)
	h.Write(account[:])
	for _, out := range req.OutputNotes {
		id := out.ID()
		h.Write(id[:])
	}
	for _, in := range req.InputNotes {
		id := in.Note.ID()
		h.Write(id[:])
	}
	var hb [8]byte
	binary.BigEndian.PutUint64(hb[:], height)
	h.Write(hb[:])

	var id TransactionID
	copy(id[:], h.Sum(nil))
	return id
}

// SyncSummary is the result of a ledger state refresh.
type SyncSummary struct {
	BlockHeight uint64 `json:"block_height"`
}
