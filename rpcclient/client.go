// Package rpcclient is the remote LedgerClient: it speaks the jsonrpc
// package's method surface over HTTP.
package rpcclient

import (
	"context"
	"encoding/hex"
	stderrors "errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/jsonrpc"
	"github.com/heirloom-labs/heirloom/jsonx"
	"github.com/heirloom-labs/heirloom/script"
	"github.com/heirloom-labs/heirloom/types"
)

type Config struct {
	Endpoint string
}

// Client implements interfaces.LedgerClient over JSON-RPC.
type Client struct {
	cfg Config
	ch  *jhttp.Channel
	cli *jrpc2.Client
}

func NewClient(cfg Config) *Client {
	ch := jhttp.NewChannel(cfg.Endpoint, nil)
	return &Client{
		cfg: cfg,
		ch:  ch,
		cli: jrpc2.NewClient(ch, nil),
	}
}

// Close releases the underlying channel.
func (c *Client) Close() error {
	return c.cli.Close()
}

// call maps transport failures to NetworkError and server-side rejections
// back to their original vault error codes. jrpc2 wraps channel failures in
// *jrpc2.Error as well, so only errors carrying the server's rejection code
// count as rejections; everything else is a transport fault.
func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	err := c.cli.CallResult(ctx, method, params, result)
	if err == nil {
		return nil
	}

	var rpcErr *jrpc2.Error
	if stderrors.As(err, &rpcErr) {
		if len(rpcErr.Data) > 0 {
			var vaultError errors.VaultError
			if derr := jsonx.Unmarshal(rpcErr.Data, &vaultError); derr == nil && vaultError.Code != "" {
				return &vaultError
			}
		}
		if rpcErr.Code == jsonrpc.CodeRejection {
			return errors.NewError(errors.ErrCodeSubmissionRejected, rpcErr.Message)
		}
	}
	return errors.NewError(errors.ErrCodeNetwork, errors.ErrMsgNetwork)
}

func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	var res jsonrpc.CurrentHeightResult
	if err := c.call(ctx, jsonrpc.MethodCurrentHeight, nil, &res); err != nil {
		return 0, err
	}
	return res.Height, nil
}

func (c *Client) CreateAccount(ctx context.Context, req interfaces.CreateAccountRequest) (types.AccountID, error) {
	params := jsonrpc.CreateAccountParams{
		Type:        req.Type,
		StorageMode: req.StorageMode,
		AuthKey:     req.AuthKey,
		Faucet:      req.Faucet,
	}
	var res jsonrpc.CreateAccountResult
	if err := c.call(ctx, jsonrpc.MethodCreateAccount, params, &res); err != nil {
		return types.AccountID{}, err
	}
	return types.ParseAccountID(res.AccountID)
}

func (c *Client) IssueAsset(ctx context.Context, faucetID, target types.AccountID, amount uint64) (types.FungibleAsset, error) {
	params := jsonrpc.IssueAssetParams{
		FaucetID: faucetID.String(),
		TargetID: target.String(),
		Amount:   amount,
	}
	var res jsonrpc.IssueAssetResult
	if err := c.call(ctx, jsonrpc.MethodIssueAsset, params, &res); err != nil {
		return types.FungibleAsset{}, err
	}
	parsed, err := types.ParseAccountID(res.FaucetID)
	if err != nil {
		return types.FungibleAsset{}, err
	}
	return types.FungibleAsset{FaucetID: parsed, Amount: res.Amount}, nil
}

// CompileScript compiles locally and registers the script remotely,
// verifying both sides agree on the root.
func (c *Client) CompileScript(ctx context.Context, source string) (interfaces.Predicate, error) {
	compiled, err := script.Compile(source)
	if err != nil {
		return nil, err
	}

	var res jsonrpc.CompileScriptResult
	if err := c.call(ctx, jsonrpc.MethodCompileScript, jsonrpc.CompileScriptParams{Source: source}, &res); err != nil {
		return nil, err
	}
	root := compiled.Root()
	if res.Root != "0x"+hex.EncodeToString(root[:]) {
		return nil, errors.NewError(errors.ErrCodeScriptCompile, "local and remote script roots disagree")
	}
	return compiled, nil
}

func (c *Client) SubmitTransaction(ctx context.Context, account types.AccountID, req types.TransactionRequest) (types.TransactionID, error) {
	params := jsonrpc.SubmitTxParams{
		AccountID: account.String(),
		Request:   req,
	}
	var res jsonrpc.SubmitTxResult
	if err := c.call(ctx, jsonrpc.MethodSubmitTx, params, &res); err != nil {
		return types.TransactionID{}, err
	}
	return parseTxID(res.TxID)
}

func (c *Client) Synchronize(ctx context.Context) (types.SyncSummary, error) {
	var res jsonrpc.SyncResult
	if err := c.call(ctx, jsonrpc.MethodSync, nil, &res); err != nil {
		return types.SyncSummary{}, err
	}
	return types.SyncSummary{BlockHeight: res.BlockHeight}, nil
}

func (c *Client) GetAccount(ctx context.Context, id types.AccountID) (*types.Account, error) {
	var res jsonrpc.GetAccountResult
	if err := c.call(ctx, jsonrpc.MethodGetAccount, jsonrpc.GetAccountParams{AccountID: id.String()}, &res); err != nil {
		return nil, err
	}
	return res.Account, nil
}

// AdvanceBlocks asks the remote reference ledger to append empty blocks.
// Rejected by ledgers whose height moves on its own.
func (c *Client) AdvanceBlocks(n uint64) error {
	var res jsonrpc.AdvanceBlocksResult
	return c.call(context.Background(), jsonrpc.MethodAdvanceBlocks, jsonrpc.AdvanceBlocksParams{Count: n}, &res)
}

func (c *Client) GetNote(ctx context.Context, id types.NoteID) (types.Note, error) {
	var res jsonrpc.GetNoteResult
	if err := c.call(ctx, jsonrpc.MethodGetNote, jsonrpc.GetNoteParams{NoteID: id.Hex()}, &res); err != nil {
		return types.Note{}, err
	}
	return res.Note, nil
}

func parseTxID(s string) (types.TransactionID, error) {
	if len(s) != 66 || s[0] != '0' || s[1] != 'x' {
		return types.TransactionID{}, errors.NewError(errors.ErrCodeMalformedRequest, "transaction id has wrong length")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return types.TransactionID{}, errors.NewError(errors.ErrCodeMalformedRequest, "transaction id is not valid hex")
	}
	var id types.TransactionID
	copy(id[:], raw)
	return id, nil
}

var _ interfaces.LedgerClient = (*Client)(nil)
