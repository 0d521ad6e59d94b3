package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/note"
	"github.com/heirloom-labs/heirloom/script"
	"github.com/heirloom-labs/heirloom/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := NewInMemory()
	require.NoError(t, err)
	return l
}

func createWallet(t *testing.T, l *Ledger) types.AccountID {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	id, err := l.CreateAccount(context.Background(), interfaces.CreateAccountRequest{
		Type:        types.AccountTypeBasicWallet,
		StorageMode: types.StoragePublic,
		AuthKey:     pub,
	})
	require.NoError(t, err)
	return id
}

func createFaucet(t *testing.T, l *Ledger, maxSupply uint64) types.AccountID {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	symbol, err := types.NewTokenSymbol("INH")
	require.NoError(t, err)

	id, err := l.CreateAccount(context.Background(), interfaces.CreateAccountRequest{
		Type:        types.AccountTypeFungibleFaucet,
		StorageMode: types.StoragePublic,
		AuthKey:     pub,
		Faucet: &types.FaucetState{
			Symbol:    symbol,
			Decimals:  8,
			MaxSupply: maxSupply,
		},
	})
	require.NoError(t, err)
	return id
}

// vaultSetup is the scenario base: owner and beneficiary wallets, a
// deployed faucet with a million-unit supply, a million units minted to
// the owner, and a ten-unit vault note committed with deadline three
// blocks out.
type vaultSetup struct {
	ledger      *Ledger
	owner       types.AccountID
	beneficiary types.AccountID
	faucetID    types.AccountID
	note        types.Note
	deadline    uint64
}

func setupVaultNote(t *testing.T) *vaultSetup {
	t.Helper()
	ctx := context.Background()
	l := newTestLedger(t)

	owner := createWallet(t, l)
	beneficiary := createWallet(t, l)
	faucetID := createFaucet(t, l, 1_000_000)

	_, err := l.IssueAsset(ctx, faucetID, owner, 1_000_000)
	require.NoError(t, err)

	_, err = l.CompileScript(ctx, script.VaultScriptSource)
	require.NoError(t, err)

	builder, err := note.NewBuilder(note.NewCryptoWordSource())
	require.NoError(t, err)

	height, err := l.CurrentHeight(ctx)
	require.NoError(t, err)
	deadline := height + 3

	asset, err := types.NewFungibleAsset(faucetID, 10)
	require.NoError(t, err)
	vaultNote, err := builder.Build(owner, asset, nil, beneficiary, deadline, height)
	require.NoError(t, err)

	_, err = l.SubmitTransaction(ctx, owner, types.TransactionRequest{}.WithOwnOutputNotes(vaultNote))
	require.NoError(t, err)

	return &vaultSetup{
		ledger:      l,
		owner:       owner,
		beneficiary: beneficiary,
		faucetID:    faucetID,
		note:        vaultNote,
		deadline:    deadline,
	}
}

func (s *vaultSetup) consumeAs(t *testing.T, consumer types.AccountID) error {
	t.Helper()
	_, err := s.ledger.SubmitTransaction(context.Background(), consumer,
		types.TransactionRequest{}.WithUnauthenticatedInputNotes(s.note))
	return err
}

func (s *vaultSetup) advancePastDeadline(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	height, err := s.ledger.CurrentHeight(ctx)
	require.NoError(t, err)
	if height < s.deadline {
		require.NoError(t, s.ledger.AdvanceBlocks(s.deadline-height))
	}
}

func TestNoteCreationDebitsOwner(t *testing.T) {
	s := setupVaultNote(t)

	owner, err := s.ledger.GetAccount(context.Background(), s.owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000-10), owner.Balance(s.faucetID).Uint64())
}

func TestConsumptionBeforeDeadlineRejectedForEveryone(t *testing.T) {
	s := setupVaultNote(t)

	for _, consumer := range []types.AccountID{s.beneficiary, s.owner} {
		err := s.consumeAs(t, consumer)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeConditionRejected, errors.CodeOf(err),
			"locked note must reject every consumer")
	}
}

func TestOwnerConsumptionAfterDeadlineRejected(t *testing.T) {
	s := setupVaultNote(t)
	s.advancePastDeadline(t)

	err := s.consumeAs(t, s.owner)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConditionRejected, errors.CodeOf(err),
		"owner is never a valid consumer")
}

func TestBeneficiaryConsumptionAfterDeadlineSucceedsOnce(t *testing.T) {
	s := setupVaultNote(t)
	ctx := context.Background()
	s.advancePastDeadline(t)

	require.NoError(t, s.consumeAs(t, s.beneficiary))

	beneficiary, err := s.ledger.GetAccount(ctx, s.beneficiary)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), beneficiary.Balance(s.faucetID).Uint64())

	err = s.consumeAs(t, s.beneficiary)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDuplicateNullifier, errors.CodeOf(err),
		"a note is consumable exactly once")
}

func TestPrematureThenPostDeadlineConsumption(t *testing.T) {
	s := setupVaultNote(t)

	err := s.consumeAs(t, s.beneficiary)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConditionRejected, errors.CodeOf(err))

	s.advancePastDeadline(t)
	require.NoError(t, s.consumeAs(t, s.beneficiary),
		"rejected premature attempt must not poison the note")
}

func TestNoteLookupRoundTrip(t *testing.T) {
	s := setupVaultNote(t)

	got, err := s.ledger.GetNote(context.Background(), s.note.ID())
	require.NoError(t, err)
	assert.Equal(t, s.note.Assets, got.Assets)
	assert.Equal(t, s.note.Metadata, got.Metadata)
	assert.Equal(t, s.note.ID(), got.ID())
}

func TestConsumeUnknownNoteRejected(t *testing.T) {
	s := setupVaultNote(t)

	builder, err := note.NewBuilder(note.NewCryptoWordSource())
	require.NoError(t, err)
	asset, err := types.NewFungibleAsset(s.faucetID, 1)
	require.NoError(t, err)
	phantom, err := builder.Build(s.owner, asset, nil, s.beneficiary, s.deadline+10, s.deadline)
	require.NoError(t, err)

	_, err = s.ledger.SubmitTransaction(context.Background(), s.beneficiary,
		types.TransactionRequest{}.WithUnauthenticatedInputNotes(phantom))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownNote, errors.CodeOf(err))
}

func TestUnbackedOutputRejected(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	owner := createWallet(t, l)
	beneficiary := createWallet(t, l)
	faucetID := createFaucet(t, l, 1_000_000)
	// nothing minted to owner

	_, err := l.CompileScript(ctx, script.VaultScriptSource)
	require.NoError(t, err)

	builder, err := note.NewBuilder(note.NewCryptoWordSource())
	require.NoError(t, err)

	height, err := l.CurrentHeight(ctx)
	require.NoError(t, err)
	asset, err := types.NewFungibleAsset(faucetID, 10)
	require.NoError(t, err)
	n, err := builder.Build(owner, asset, nil, beneficiary, height+3, height)
	require.NoError(t, err)

	_, err = l.SubmitTransaction(ctx, owner, types.TransactionRequest{}.WithOwnOutputNotes(n))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInsufficientFunds, errors.CodeOf(err))

	// rejection must leave state untouched
	_, err = l.GetNote(ctx, n.ID())
	assert.Error(t, err)
}

func TestIssueAssetEnforcesSupplyCap(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	owner := createWallet(t, l)
	faucetID := createFaucet(t, l, 1_000)

	_, err := l.IssueAsset(ctx, faucetID, owner, 900)
	require.NoError(t, err)

	_, err = l.IssueAsset(ctx, faucetID, owner, 200)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSupplyExceeded, errors.CodeOf(err))

	_, err = l.IssueAsset(ctx, faucetID, owner, 100)
	require.NoError(t, err, "remaining supply must still be mintable")
}

func TestSubmitForUnknownAccountRejected(t *testing.T) {
	s := setupVaultNote(t)

	ghost := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("ghost"))
	_, err := s.ledger.SubmitTransaction(context.Background(), ghost,
		types.TransactionRequest{}.WithUnauthenticatedInputNotes(s.note))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownAccount, errors.CodeOf(err))
}

func TestSynchronizeReportsHeight(t *testing.T) {
	s := setupVaultNote(t)
	ctx := context.Background()

	before, err := s.ledger.Synchronize(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ledger.AdvanceBlocks(5))
	after, err := s.ledger.Synchronize(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.BlockHeight+5, after.BlockHeight)
}
