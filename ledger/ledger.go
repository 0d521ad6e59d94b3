// Package ledger is the reference note ledger: an in-process
// interfaces.LedgerClient used by tests, the demo flow and the JSON-RPC
// server. It owns account balances, committed notes, the nullifier set and
// the chain height.
package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	verrors "github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/logx"
	"github.com/heirloom-labs/heirloom/script"
	"github.com/heirloom-labs/heirloom/store"
	"github.com/heirloom-labs/heirloom/types"
	"github.com/holiman/uint256"
)

var (
	ErrAccountExisted = errors.New("account existed")
)

type Ledger struct {
	mu             sync.RWMutex
	accountStore   store.AccountStore
	noteStore      store.NoteStore
	nullifierStore store.NullifierStore
	metaStore      store.StateMetaStore
	predicates     map[[32]byte]interfaces.Predicate
	height         uint64
}

func NewLedger(accountStore store.AccountStore, noteStore store.NoteStore, nullifierStore store.NullifierStore, metaStore store.StateMetaStore) (*Ledger, error) {
	height, err := metaStore.GetHeight()
	if err != nil {
		return nil, fmt.Errorf("could not load chain height: %w", err)
	}
	return &Ledger{
		accountStore:   accountStore,
		noteStore:      noteStore,
		nullifierStore: nullifierStore,
		metaStore:      metaStore,
		predicates:     make(map[[32]byte]interfaces.Predicate),
		height:         height,
	}, nil
}

// CurrentHeight returns the chain height of the committed state.
func (l *Ledger) CurrentHeight(ctx context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height, nil
}

// CreateAccount registers a wallet or faucet account. Each accepted
// registration is its own block, so the height advances by one.
func (l *Ledger) CreateAccount(ctx context.Context, req interfaces.CreateAccountRequest) (types.AccountID, error) {
	if len(req.AuthKey) == 0 {
		return types.AccountID{}, verrors.NewError(verrors.ErrCodeMalformedRequest, "auth key is required")
	}
	if req.Type == types.AccountTypeFungibleFaucet && req.Faucet == nil {
		return types.AccountID{}, verrors.NewError(verrors.ErrCodeMalformedRequest, "faucet account needs faucet config")
	}
	if req.Type != types.AccountTypeFungibleFaucet && req.Faucet != nil {
		return types.AccountID{}, verrors.NewError(verrors.ErrCodeMalformedRequest, "wallet account cannot carry faucet config")
	}

	seed := make([]byte, 0, len(req.AuthKey)+32)
	seed = append(seed, req.AuthKey...)
	var salt [32]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return types.AccountID{}, fmt.Errorf("could not draw account seed: %w", err)
	}
	seed = append(seed, salt[:]...)
	id := types.NewAccountID(req.Type, req.StorageMode, seed)

	l.mu.Lock()
	defer l.mu.Unlock()

	existed, err := l.accountStore.ExistsByID(id)
	if err != nil {
		return types.AccountID{}, fmt.Errorf("could not check existence of account: %w", err)
	}
	if existed {
		return types.AccountID{}, ErrAccountExisted
	}

	account := types.NewAccount(id, req.AuthKey)
	if req.Faucet != nil {
		account.Faucet = &types.FaucetState{
			Symbol:    req.Faucet.Symbol,
			Decimals:  req.Faucet.Decimals,
			MaxSupply: req.Faucet.MaxSupply,
			Minted:    uint256.NewInt(0),
		}
	}
	if err := l.accountStore.Store(account); err != nil {
		return types.AccountID{}, fmt.Errorf("could not store account: %w", err)
	}

	if err := l.advanceHeightLocked(1); err != nil {
		return types.AccountID{}, err
	}
	logx.Info("LEDGER", "created account ", id.String(), " at height ", l.height)
	return id, nil
}

// IssueAsset mints faucet-backed units to the target account, bounded by
// the faucet's remaining supply.
func (l *Ledger) IssueAsset(ctx context.Context, faucetID, target types.AccountID, amount uint64) (types.FungibleAsset, error) {
	asset, err := types.NewFungibleAsset(faucetID, amount)
	if err != nil {
		return types.FungibleAsset{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	faucetAccount, err := l.getAccountLocked(faucetID)
	if err != nil {
		return types.FungibleAsset{}, err
	}
	if faucetAccount.Faucet == nil {
		return types.FungibleAsset{}, verrors.NewError(verrors.ErrCodeInvalidAsset, "issuer is not a faucet account")
	}
	targetAccount, err := l.getAccountLocked(target)
	if err != nil {
		return types.FungibleAsset{}, err
	}

	minted := faucetAccount.Faucet.Minted
	if minted == nil {
		minted = uint256.NewInt(0)
	}
	next := new(uint256.Int).Add(minted, uint256.NewInt(amount))
	if next.Gt(uint256.NewInt(faucetAccount.Faucet.MaxSupply)) {
		return types.FungibleAsset{}, verrors.NewError(verrors.ErrCodeSupplyExceeded, verrors.ErrMsgSupplyExceeded)
	}

	faucetAccount.Faucet.Minted = next
	targetAccount.Credit(faucetID, amount)

	if err := l.accountStore.Store(faucetAccount); err != nil {
		return types.FungibleAsset{}, fmt.Errorf("could not store faucet account: %w", err)
	}
	if err := l.accountStore.Store(targetAccount); err != nil {
		return types.FungibleAsset{}, fmt.Errorf("could not store target account: %w", err)
	}

	if err := l.advanceHeightLocked(1); err != nil {
		return types.FungibleAsset{}, err
	}
	logx.Info("LEDGER", "minted ", amount, " units of ", string(faucetAccount.Faucet.Symbol), " to ", target.String())
	return asset, nil
}

// CompileScript compiles condition-script source and registers the
// resulting predicate under its root, making notes referencing it
// consumable.
func (l *Ledger) CompileScript(ctx context.Context, source string) (interfaces.Predicate, error) {
	compiled, err := script.Compile(source)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.predicates[compiled.Root()] = compiled
	l.mu.Unlock()
	return compiled, nil
}

// RegisterPredicate installs an externally compiled predicate.
func (l *Ledger) RegisterPredicate(p interfaces.Predicate) {
	l.mu.Lock()
	l.predicates[p.Root()] = p
	l.mu.Unlock()
}

// SubmitTransaction validates, executes and commits a transaction. The
// request is checked in full before any state is touched, so a rejection
// leaves the ledger unchanged.
func (l *Ledger) SubmitTransaction(ctx context.Context, account types.AccountID, req types.TransactionRequest) (types.TransactionID, error) {
	if err := req.Validate(); err != nil {
		return types.TransactionID{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	executor, err := l.getAccountLocked(account)
	if err != nil {
		return types.TransactionID{}, err
	}

	// Validation phase: nothing below may mutate state.
	type consumption struct {
		record    *store.NoteRecord
		nullifier types.Nullifier
	}
	consumptions := make([]consumption, 0, len(req.InputNotes))

	required := make(map[string]*uint256.Int)
	for _, out := range req.OutputNotes {
		if len(out.Assets) == 0 {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeMalformedNote, errMsgEmptyNote)
		}
		existed, err := l.noteStore.ExistsByID(out.ID())
		if err != nil {
			return types.TransactionID{}, fmt.Errorf("could not check note existence: %w", err)
		}
		if existed {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeSubmissionRejected, "output note already committed")
		}
		for _, asset := range out.Assets {
			key := asset.FaucetID.String()
			if required[key] == nil {
				required[key] = uint256.NewInt(0)
			}
			required[key].Add(required[key], uint256.NewInt(asset.Amount))
		}
	}
	for key, amount := range required {
		held, ok := executor.Balances[key]
		if !ok || held.Lt(amount) {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeInsufficientFunds, verrors.ErrMsgInsufficientFunds)
		}
	}

	for _, in := range req.InputNotes {
		record, err := l.noteStore.GetByID(in.Note.ID())
		if err != nil {
			return types.TransactionID{}, fmt.Errorf("could not read note: %w", err)
		}
		if record == nil {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeUnknownNote, verrors.ErrMsgUnknownNote)
		}

		nullifier := record.Note.Nullifier()
		spent, err := l.nullifierStore.Has(nullifier)
		if err != nil {
			return types.TransactionID{}, fmt.Errorf("could not check nullifier: %w", err)
		}
		if spent || record.Consumed {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeDuplicateNullifier, verrors.ErrMsgDuplicateNullifier)
		}

		predicate, ok := l.predicates[record.Note.Recipient.ScriptRoot]
		if !ok {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeConditionRejected, "no predicate registered for script root")
		}
		accepted := predicate.Evaluate(interfaces.EvalContext{
			BlockHeight: l.height,
			Consumer:    account,
			Inputs:      record.Note.Recipient.Inputs,
		})
		if !accepted {
			return types.TransactionID{}, verrors.NewError(verrors.ErrCodeConditionRejected, verrors.ErrMsgConditionRejected)
		}
		consumptions = append(consumptions, consumption{record: record, nullifier: nullifier})
	}

	// Apply phase.
	newHeight := l.height + 1
	txID := types.DeriveTransactionID(account, req, newHeight)

	for _, out := range req.OutputNotes {
		for _, asset := range out.Assets {
			if err := executor.Debit(asset.FaucetID, asset.Amount); err != nil {
				return types.TransactionID{}, err
			}
		}
		record := &store.NoteRecord{Note: out, CreatedHeight: newHeight}
		if err := l.noteStore.Store(record); err != nil {
			return types.TransactionID{}, fmt.Errorf("could not store note: %w", err)
		}
	}

	for _, c := range consumptions {
		if err := l.nullifierStore.Add(c.nullifier, txID); err != nil {
			return types.TransactionID{}, err
		}
		c.record.Consumed = true
		c.record.ConsumedHeight = newHeight
		if err := l.noteStore.Store(c.record); err != nil {
			return types.TransactionID{}, fmt.Errorf("could not update note record: %w", err)
		}
		for _, asset := range c.record.Note.Assets {
			executor.Credit(asset.FaucetID, asset.Amount)
		}
	}

	if err := l.accountStore.Store(executor); err != nil {
		return types.TransactionID{}, fmt.Errorf("could not store account: %w", err)
	}
	if err := l.advanceHeightLocked(1); err != nil {
		return types.TransactionID{}, err
	}

	logx.Info("LEDGER", "accepted tx ", txID.Hex(), " at height ", l.height,
		" outputs=", len(req.OutputNotes), " inputs=", len(req.InputNotes))
	return txID, nil
}

// Synchronize refreshes the in-memory view from the persisted chain meta.
func (l *Ledger) Synchronize(ctx context.Context) (types.SyncSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	height, err := l.metaStore.GetHeight()
	if err != nil {
		return types.SyncSummary{}, verrors.NewError(verrors.ErrCodeSyncFailed, verrors.ErrMsgSyncFailed)
	}
	l.height = height
	return types.SyncSummary{BlockHeight: height}, nil
}

// GetAccount returns the committed record for an account.
func (l *Ledger) GetAccount(ctx context.Context, id types.AccountID) (*types.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.getAccountLocked(id)
}

// GetNote looks a committed note up by its identifier.
func (l *Ledger) GetNote(ctx context.Context, id types.NoteID) (types.Note, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	record, err := l.noteStore.GetByID(id)
	if err != nil {
		return types.Note{}, fmt.Errorf("could not read note: %w", err)
	}
	if record == nil {
		return types.Note{}, verrors.NewError(verrors.ErrCodeUnknownNote, verrors.ErrMsgUnknownNote)
	}
	return record.Note, nil
}

// AdvanceBlocks appends empty blocks, driving time-locked conditions toward
// release. Exposed for the demo flow and tests.
func (l *Ledger) AdvanceBlocks(n uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.advanceHeightLocked(n)
}

func (l *Ledger) getAccountLocked(id types.AccountID) (*types.Account, error) {
	account, err := l.accountStore.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("could not read account: %w", err)
	}
	if account == nil {
		return nil, verrors.NewError(verrors.ErrCodeUnknownAccount, verrors.ErrMsgUnknownAccount)
	}
	if account.Balances == nil {
		account.Balances = make(map[string]*uint256.Int)
	}
	return account, nil
}

func (l *Ledger) advanceHeightLocked(n uint64) error {
	next := l.height + n
	if err := l.metaStore.SetHeight(next); err != nil {
		return fmt.Errorf("could not persist height: %w", err)
	}
	l.height = next
	return nil
}

const errMsgEmptyNote = "note must carry at least one asset"

var _ interfaces.LedgerClient = (*Ledger)(nil)
