package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/heirloom-labs/heirloom/db"
)

// StateMetaStore keeps small chain-level values, currently just the block
// height.
type StateMetaStore interface {
	GetHeight() (uint64, error)
	SetHeight(height uint64) error
	MustClose()
}

type GenericStateMetaStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericStateMetaStore(dbProvider db.DatabaseProvider) (*GenericStateMetaStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericStateMetaStore{
		dbProvider: dbProvider,
	}, nil
}

func (ms *GenericStateMetaStore) GetHeight() (uint64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	data, err := ms.dbProvider.Get(ms.heightKey())
	if err != nil {
		return 0, fmt.Errorf("failed to read height: %w", err)
	}
	if len(data) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(data), nil
}

func (ms *GenericStateMetaStore) SetHeight(height uint64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], height)
	if err := ms.dbProvider.Put(ms.heightKey(), buf[:]); err != nil {
		return fmt.Errorf("failed to write height: %w", err)
	}
	return nil
}

func (ms *GenericStateMetaStore) MustClose() {
	if err := ms.dbProvider.Close(); err != nil {
		panic(fmt.Sprintf("failed to close state meta store: %v", err))
	}
}

func (ms *GenericStateMetaStore) heightKey() []byte {
	return []byte(PrefixMeta + "height")
}
