// Package store persists ledger state (accounts, notes, nullifiers, chain
// meta) over a db.DatabaseProvider.
package store

import (
	"fmt"
	"sync"

	"github.com/heirloom-labs/heirloom/db"
	"github.com/heirloom-labs/heirloom/jsonx"
	"github.com/heirloom-labs/heirloom/types"
)

type AccountStore interface {
	Store(account *types.Account) error
	GetByID(id types.AccountID) (*types.Account, error)
	ExistsByID(id types.AccountID) (bool, error)
	MustClose()
}

type GenericAccountStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericAccountStore(dbProvider db.DatabaseProvider) (*GenericAccountStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericAccountStore{
		dbProvider: dbProvider,
	}, nil
}

func (as *GenericAccountStore) Store(account *types.Account) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	accountData, err := jsonx.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	err = as.dbProvider.Put(as.getDbKey(account.ID), accountData)
	if err != nil {
		return fmt.Errorf("failed to write account to db: %w", err)
	}

	return nil
}

func (as *GenericAccountStore) GetByID(id types.AccountID) (*types.Account, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	data, err := as.dbProvider.Get(as.getDbKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read account from db: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var account types.Account
	if err := jsonx.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

func (as *GenericAccountStore) ExistsByID(id types.AccountID) (bool, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	return as.dbProvider.Has(as.getDbKey(id))
}

func (as *GenericAccountStore) MustClose() {
	if err := as.dbProvider.Close(); err != nil {
		panic(fmt.Sprintf("failed to close account store: %v", err))
	}
}

func (as *GenericAccountStore) getDbKey(id types.AccountID) []byte {
	return []byte(PrefixAccount + id.String())
}
