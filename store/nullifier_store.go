package store

import (
	"fmt"
	"sync"

	"github.com/heirloom-labs/heirloom/db"
	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/types"
)

// NullifierStore records consumed notes. A nullifier can be added exactly
// once; a second add is the double-spend signal.
type NullifierStore interface {
	Add(nullifier types.Nullifier, txID types.TransactionID) error
	Has(nullifier types.Nullifier) (bool, error)
	MustClose()
}

type GenericNullifierStore struct {
	mu         sync.Mutex
	dbProvider db.DatabaseProvider
}

func NewGenericNullifierStore(dbProvider db.DatabaseProvider) (*GenericNullifierStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericNullifierStore{
		dbProvider: dbProvider,
	}, nil
}

// Add stores the nullifier with the consuming transaction id. The check and
// the write are done under one lock so concurrent consumers cannot both
// pass.
func (s *GenericNullifierStore) Add(nullifier types.Nullifier, txID types.TransactionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.getDbKey(nullifier)
	exists, err := s.dbProvider.Has(key)
	if err != nil {
		return fmt.Errorf("failed to check nullifier: %w", err)
	}
	if exists {
		return errors.NewError(errors.ErrCodeDuplicateNullifier, errors.ErrMsgDuplicateNullifier)
	}

	if err := s.dbProvider.Put(key, txID[:]); err != nil {
		return fmt.Errorf("failed to write nullifier to db: %w", err)
	}
	return nil
}

func (s *GenericNullifierStore) Has(nullifier types.Nullifier) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dbProvider.Has(s.getDbKey(nullifier))
}

func (s *GenericNullifierStore) MustClose() {
	if err := s.dbProvider.Close(); err != nil {
		panic(fmt.Sprintf("failed to close nullifier store: %v", err))
	}
}

func (s *GenericNullifierStore) getDbKey(nullifier types.Nullifier) []byte {
	return []byte(PrefixNullifier + nullifier.Hex())
}
