package jsonrpc

import (
	"github.com/heirloom-labs/heirloom/types"
)

// JSON-RPC method name constants, shared by server and client.
const (
	MethodCurrentHeight = "ledger.currentheight"
	MethodCreateAccount = "ledger.createaccount"
	MethodIssueAsset    = "ledger.issueasset"
	MethodCompileScript = "ledger.compilescript"
	MethodSubmitTx      = "ledger.submittx"
	MethodSync          = "ledger.sync"
	MethodGetAccount    = "ledger.getaccount"
	MethodGetNote       = "ledger.getnote"
	MethodAdvanceBlocks = "ledger.advanceblocks"
)

// --- Params/Results, one pair per method ---

type CurrentHeightResult struct {
	Height uint64 `json:"height"`
}

type CreateAccountParams struct {
	Type        types.AccountType  `json:"type"`
	StorageMode types.StorageMode  `json:"storage_mode"`
	AuthKey     []byte             `json:"auth_key"`
	Faucet      *types.FaucetState `json:"faucet,omitempty"`
}

type CreateAccountResult struct {
	AccountID string `json:"account_id"`
}

type IssueAssetParams struct {
	FaucetID string `json:"faucet_id"`
	TargetID string `json:"target_id"`
	Amount   uint64 `json:"amount"`
}

type IssueAssetResult struct {
	FaucetID string `json:"faucet_id"`
	Amount   uint64 `json:"amount"`
}

type CompileScriptParams struct {
	Source string `json:"source"`
}

type CompileScriptResult struct {
	Root string `json:"root"`
}

type SubmitTxParams struct {
	AccountID string                   `json:"account_id"`
	Request   types.TransactionRequest `json:"request"`
}

type SubmitTxResult struct {
	TxID string `json:"tx_id"`
}

type SyncResult struct {
	BlockHeight uint64 `json:"block_height"`
}

type GetAccountParams struct {
	AccountID string `json:"account_id"`
}

type GetAccountResult struct {
	Account *types.Account `json:"account"`
}

type AdvanceBlocksParams struct {
	Count uint64 `json:"count"`
}

type AdvanceBlocksResult struct {
	Height uint64 `json:"height"`
}

type GetNoteParams struct {
	NoteID string `json:"note_id"`
}

type GetNoteResult struct {
	Note types.Note `json:"note"`
}
