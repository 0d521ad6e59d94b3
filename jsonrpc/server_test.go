package jsonrpc_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/jsonrpc"
	"github.com/heirloom-labs/heirloom/ledger"
	"github.com/heirloom-labs/heirloom/note"
	"github.com/heirloom-labs/heirloom/rpcclient"
	"github.com/heirloom-labs/heirloom/script"
	"github.com/heirloom-labs/heirloom/types"
	"github.com/heirloom-labs/heirloom/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRemote exposes an in-memory ledger over HTTP and returns a client
// pointed at it.
func startRemote(t *testing.T) (*rpcclient.Client, *ledger.Ledger) {
	t.Helper()
	l, err := ledger.NewInMemory()
	require.NoError(t, err)

	srv := httptest.NewServer(jsonrpc.NewServer("", l).Handler())
	t.Cleanup(srv.Close)

	client := rpcclient.NewClient(rpcclient.Config{Endpoint: srv.URL})
	t.Cleanup(func() { _ = client.Close() })
	return client, l
}

func createRemoteWallet(t *testing.T, client *rpcclient.Client) types.AccountID {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id, err := client.CreateAccount(context.Background(), interfaces.CreateAccountRequest{
		Type:        types.AccountTypeBasicWallet,
		StorageMode: types.StoragePublic,
		AuthKey:     pub,
	})
	require.NoError(t, err)
	return id
}

func TestRemoteHeightAndSync(t *testing.T) {
	client, l := startRemote(t)
	ctx := context.Background()

	height, err := client.CurrentHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), height)

	require.NoError(t, l.AdvanceBlocks(4))
	summary, err := client.Synchronize(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), summary.BlockHeight)
}

func TestRemoteVaultRoundTrip(t *testing.T) {
	client, l := startRemote(t)
	ctx := context.Background()

	owner := createRemoteWallet(t, client)
	beneficiary := createRemoteWallet(t, client)

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	symbol, err := types.NewTokenSymbol("INH")
	require.NoError(t, err)
	faucetID, err := client.CreateAccount(ctx, interfaces.CreateAccountRequest{
		Type:        types.AccountTypeFungibleFaucet,
		StorageMode: types.StoragePublic,
		AuthKey:     pub,
		Faucet:      &types.FaucetState{Symbol: symbol, Decimals: 8, MaxSupply: 1_000_000},
	})
	require.NoError(t, err)

	minted, err := client.IssueAsset(ctx, faucetID, owner, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), minted.Amount)

	_, err = client.CompileScript(ctx, script.VaultScriptSource)
	require.NoError(t, err)

	builder, err := note.NewBuilder(note.NewCryptoWordSource())
	require.NoError(t, err)
	height, err := client.CurrentHeight(ctx)
	require.NoError(t, err)
	deadline := height + 3

	asset, err := types.NewFungibleAsset(faucetID, 10)
	require.NoError(t, err)
	vaultNote, err := builder.Build(owner, asset, nil, beneficiary, deadline, height)
	require.NoError(t, err)

	_, err = client.SubmitTransaction(ctx, owner, types.TransactionRequest{}.WithOwnOutputNotes(vaultNote))
	require.NoError(t, err)

	// the committed note survives serialization intact
	got, err := client.GetNote(ctx, vaultNote.ID())
	require.NoError(t, err)
	assert.Equal(t, vaultNote.ID(), got.ID())

	// rejection codes travel the wire unchanged
	_, err = client.SubmitTransaction(ctx, beneficiary,
		types.TransactionRequest{}.WithUnauthenticatedInputNotes(vaultNote))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConditionRejected, errors.CodeOf(err))

	require.NoError(t, l.AdvanceBlocks(3))
	_, err = client.SubmitTransaction(ctx, beneficiary,
		types.TransactionRequest{}.WithUnauthenticatedInputNotes(vaultNote))
	require.NoError(t, err)

	account, err := client.GetAccount(ctx, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), account.Balance(faucetID).Uint64())
}

func TestRemoteCompileRejectsBadScript(t *testing.T) {
	client, _ := startRemote(t)

	_, err := client.CompileScript(context.Background(), "push.1\n")
	require.Error(t, err)
	assert.True(t, errors.IsConstruction(err))
}

func TestRemoteUnknownAccount(t *testing.T) {
	client, _ := startRemote(t)

	ghost := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("ghost"))
	_, err := client.GetAccount(context.Background(), ghost)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownAccount, errors.CodeOf(err))
}

func TestClientReportsNetworkFailure(t *testing.T) {
	client := rpcclient.NewClient(rpcclient.Config{Endpoint: "http://127.0.0.1:1/"})
	defer client.Close()

	_, err := client.CurrentHeight(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err),
		"an unreachable endpoint is a transport fault, not a rejection")
}

// TestClientErrorClassification pins the client's mapping: the server's
// rejection code maps to submission_rejected even without vault-error data,
// while any other RPC error stays a transport fault.
func TestClientErrorClassification(t *testing.T) {
	methods := handler.Map{
		jsonrpc.MethodCurrentHeight: handler.New(func(ctx context.Context) (*jsonrpc.CurrentHeightResult, error) {
			return nil, jrpc2.Errorf(jsonrpc.CodeRejection, "ledger busy")
		}),
		jsonrpc.MethodSync: handler.New(func(ctx context.Context) (*jsonrpc.SyncResult, error) {
			return nil, jrpc2.Errorf(jrpc2.InternalError, "boom")
		}),
	}
	srv := httptest.NewServer(jhttp.NewBridge(methods, nil))
	t.Cleanup(srv.Close)

	client := rpcclient.NewClient(rpcclient.Config{Endpoint: srv.URL})
	t.Cleanup(func() { _ = client.Close() })

	_, err := client.CurrentHeight(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSubmissionRejected, errors.CodeOf(err))

	_, err = client.Synchronize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNetwork(err))
}

func TestRemoteAdvanceBlocks(t *testing.T) {
	client, _ := startRemote(t)
	ctx := context.Background()

	require.NoError(t, client.AdvanceBlocks(5))
	height, err := client.CurrentHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), height)
}

// mapKeyStore is a plain map keystore for the remote flow test.
type mapKeyStore struct {
	mu   sync.Mutex
	keys map[string]ed25519.PrivateKey
}

func (ks *mapKeyStore) AddKey(id types.AccountID, key ed25519.PrivateKey) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[id.String()] = key
	return nil
}

func (ks *mapKeyStore) GetKey(id types.AccountID) (ed25519.PrivateKey, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	key, ok := ks.keys[id.String()]
	if !ok {
		return nil, errors.NewError(errors.ErrCodeUnknownAccount, errors.ErrMsgUnknownAccount)
	}
	return key, nil
}

// TestRemoteFlowCompletes runs the whole inheritance flow against a served
// ledger: the client drives the deadline through the advance-blocks method
// instead of waiting out wall-clock block cadence.
func TestRemoteFlowCompletes(t *testing.T) {
	client, _ := startRemote(t)

	cfg := vault.DefaultFlowConfig()
	cfg.BlockInterval = time.Millisecond
	cfg.SafetyMargin = time.Millisecond

	flow := vault.NewFlow(client, &mapKeyStore{keys: make(map[string]ed25519.PrivateKey)}, cfg)
	result, err := flow.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), result.BeneficiaryBalance)
}
