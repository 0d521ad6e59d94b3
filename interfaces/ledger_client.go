package interfaces

import (
	"context"
	"crypto/ed25519"

	"github.com/heirloom-labs/heirloom/types"
)

// CreateAccountRequest carries everything the ledger needs to register an
// account. FaucetConfig is set only for fungible-faucet accounts.
type CreateAccountRequest struct {
	Type        types.AccountType  `json:"type"`
	StorageMode types.StorageMode  `json:"storage_mode"`
	AuthKey     ed25519.PublicKey  `json:"auth_key"`
	Faucet      *types.FaucetState `json:"faucet,omitempty"`
}

// LedgerClient is the external ledger surface the vault core consumes.
// Implementations: the in-process reference ledger and the JSON-RPC client.
type LedgerClient interface {
	// CurrentHeight returns the chain height of the last synced state.
	CurrentHeight(ctx context.Context) (uint64, error)

	// CreateAccount registers a new account and returns its identifier.
	CreateAccount(ctx context.Context, req CreateAccountRequest) (types.AccountID, error)

	// IssueAsset mints faucet-backed units to the target account.
	IssueAsset(ctx context.Context, faucetID, target types.AccountID, amount uint64) (types.FungibleAsset, error)

	// CompileScript compiles condition-script source into an executable
	// predicate for the ledger's execution environment.
	CompileScript(ctx context.Context, source string) (Predicate, error)

	// SubmitTransaction executes and commits a transaction for the account.
	// Input notes may be authenticated or unauthenticated; unauthenticated
	// ones are resolved by note content.
	SubmitTransaction(ctx context.Context, account types.AccountID, req types.TransactionRequest) (types.TransactionID, error)

	// Synchronize refreshes the local view of ledger state.
	Synchronize(ctx context.Context) (types.SyncSummary, error)

	// GetAccount returns the current record for an account.
	GetAccount(ctx context.Context, id types.AccountID) (*types.Account, error)

	// GetNote looks a committed note up by its identifier.
	GetNote(ctx context.Context, id types.NoteID) (types.Note, error)
}
