// Package jsonrpc exposes a ledger over JSON-RPC. The method surface is
// exactly what rpcclient consumes, so a remote vault run behaves like an
// in-process one.
package jsonrpc

import (
	"context"
	"encoding/hex"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/jsonx"
	"github.com/heirloom-labs/heirloom/logx"
	"github.com/heirloom-labs/heirloom/types"
)

// CodeRejection is the JSON-RPC error code vault rejections travel under.
// The vault error itself rides in the error data; clients treat any other
// code as a transport fault.
const CodeRejection jrpc2.Code = 400

func toJRPC2Error(err error) error {
	if err == nil {
		return nil
	}
	var vaultError errors.VaultError
	if uerr := jsonx.Unmarshal([]byte(err.Error()), &vaultError); uerr == nil && vaultError.Code != "" {
		return jrpc2.Errorf(CodeRejection, "%s", vaultError.Message).WithData(vaultError)
	}
	return jrpc2.Errorf(CodeRejection, "%s", err.Error())
}

// Server bridges HTTP requests onto a LedgerClient.
type Server struct {
	addr   string
	ledger interfaces.LedgerClient
	server *http.Server
}

func NewServer(addr string, ledger interfaces.LedgerClient) *Server {
	return &Server{addr: addr, ledger: ledger}
}

// Handler returns the JSON-RPC bridge as an http.Handler, for embedding in
// an existing mux.
func (s *Server) Handler() http.Handler {
	return jhttp.NewBridge(s.buildMethodMap(), &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})
}

// Start serves in the background until Stop.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())
	s.server = &http.Server{Addr: s.addr, Handler: mux}

	logx.Info("RPC", "serving ledger rpc on ", s.addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("RPC", "serve failed: ", err)
		}
	}()
}

// Stop shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodCurrentHeight: handler.New(func(ctx context.Context) (*CurrentHeightResult, error) {
			height, err := s.ledger.CurrentHeight(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &CurrentHeightResult{Height: height}, nil
		}),
		MethodCreateAccount: handler.New(func(ctx context.Context, p CreateAccountParams) (*CreateAccountResult, error) {
			id, err := s.ledger.CreateAccount(ctx, interfaces.CreateAccountRequest{
				Type:        p.Type,
				StorageMode: p.StorageMode,
				AuthKey:     p.AuthKey,
				Faucet:      p.Faucet,
			})
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &CreateAccountResult{AccountID: id.String()}, nil
		}),
		MethodIssueAsset: handler.New(func(ctx context.Context, p IssueAssetParams) (*IssueAssetResult, error) {
			faucetID, err := types.ParseAccountID(p.FaucetID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			targetID, err := types.ParseAccountID(p.TargetID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			asset, err := s.ledger.IssueAsset(ctx, faucetID, targetID, p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &IssueAssetResult{FaucetID: asset.FaucetID.String(), Amount: asset.Amount}, nil
		}),
		MethodCompileScript: handler.New(func(ctx context.Context, p CompileScriptParams) (*CompileScriptResult, error) {
			predicate, err := s.ledger.CompileScript(ctx, p.Source)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			root := predicate.Root()
			return &CompileScriptResult{Root: "0x" + hex.EncodeToString(root[:])}, nil
		}),
		MethodSubmitTx: handler.New(func(ctx context.Context, p SubmitTxParams) (*SubmitTxResult, error) {
			accountID, err := types.ParseAccountID(p.AccountID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			txID, err := s.ledger.SubmitTransaction(ctx, accountID, p.Request)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &SubmitTxResult{TxID: txID.Hex()}, nil
		}),
		MethodSync: handler.New(func(ctx context.Context) (*SyncResult, error) {
			summary, err := s.ledger.Synchronize(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &SyncResult{BlockHeight: summary.BlockHeight}, nil
		}),
		MethodGetAccount: handler.New(func(ctx context.Context, p GetAccountParams) (*GetAccountResult, error) {
			accountID, err := types.ParseAccountID(p.AccountID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			account, err := s.ledger.GetAccount(ctx, accountID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &GetAccountResult{Account: account}, nil
		}),
		MethodAdvanceBlocks: handler.New(func(ctx context.Context, p AdvanceBlocksParams) (*AdvanceBlocksResult, error) {
			advancer, ok := s.ledger.(interface{ AdvanceBlocks(n uint64) error })
			if !ok {
				return nil, toJRPC2Error(errors.NewError(errors.ErrCodeSubmissionRejected,
					"ledger does not support externally driven blocks"))
			}
			if err := advancer.AdvanceBlocks(p.Count); err != nil {
				return nil, toJRPC2Error(err)
			}
			height, err := s.ledger.CurrentHeight(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &AdvanceBlocksResult{Height: height}, nil
		}),
		MethodGetNote: handler.New(func(ctx context.Context, p GetNoteParams) (*GetNoteResult, error) {
			noteID, err := types.ParseNoteID(p.NoteID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			n, err := s.ledger.GetNote(ctx, noteID)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &GetNoteResult{Note: n}, nil
		}),
	}
}
