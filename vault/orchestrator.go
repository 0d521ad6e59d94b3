// Package vault orchestrates the inheritance-vault protocol: note
// submission, deadline waiting and the end-to-end transfer flow.
package vault

import (
	"context"

	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/logx"
	"github.com/heirloom-labs/heirloom/types"
)

// Orchestrator builds and submits the two vault transactions: emitting a
// note as an output and consuming one as an input. Ledger rejections are
// propagated verbatim and never retried here.
type Orchestrator struct {
	client interfaces.LedgerClient
}

func NewOrchestrator(client interfaces.LedgerClient) *Orchestrator {
	return &Orchestrator{client: client}
}

// SubmitOutput submits a transaction declaring the note as a newly owned
// output, then resynchronizes so later operations observe the updated
// balances and note set. When the resync fails after an accepted submit,
// the transaction id is returned alongside the error: the transaction
// landed, only the state refresh did not.
func (o *Orchestrator) SubmitOutput(ctx context.Context, account types.AccountID, n types.Note) (types.TransactionID, error) {
	req := types.TransactionRequest{}.WithOwnOutputNotes(n)
	txID, err := o.client.SubmitTransaction(ctx, account, req)
	if err != nil {
		return types.TransactionID{}, err
	}
	if _, err := o.client.Synchronize(ctx); err != nil {
		return txID, errors.NewError(errors.ErrCodeSyncFailed, errors.ErrMsgSyncFailed)
	}

	logx.Info("ORCHESTRATOR", "note ", n.ID().Hex(), " committed in tx ", txID.Hex())
	return txID, nil
}

// SubmitConsumption submits a transaction consuming the note as an
// unauthenticated input: the note is referenced by content and the
// consuming account need not have tracked it beforehand. Like SubmitOutput,
// a failed resync after acceptance still returns the transaction id.
func (o *Orchestrator) SubmitConsumption(ctx context.Context, account types.AccountID, n types.Note) (types.TransactionID, error) {
	req := types.TransactionRequest{}.WithUnauthenticatedInputNotes(n)
	txID, err := o.client.SubmitTransaction(ctx, account, req)
	if err != nil {
		return types.TransactionID{}, err
	}
	if _, err := o.client.Synchronize(ctx); err != nil {
		return txID, errors.NewError(errors.ErrCodeSyncFailed, errors.ErrMsgSyncFailed)
	}

	logx.Info("ORCHESTRATOR", "note ", n.ID().Hex(), " consumed by ", account.String(), " in tx ", txID.Hex())
	return txID, nil
}
