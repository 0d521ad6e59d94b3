package store

import (
	"fmt"
	"sync"

	"github.com/heirloom-labs/heirloom/db"
	"github.com/heirloom-labs/heirloom/jsonx"
	"github.com/heirloom-labs/heirloom/types"
)

// NoteRecord is the persisted lifecycle of a note: committed at a height,
// consumed at most once later.
type NoteRecord struct {
	Note           types.Note `json:"note"`
	CreatedHeight  uint64     `json:"created_height"`
	Consumed       bool       `json:"consumed"`
	ConsumedHeight uint64     `json:"consumed_height,omitempty"`
}

type NoteStore interface {
	Store(record *NoteRecord) error
	GetByID(id types.NoteID) (*NoteRecord, error)
	ExistsByID(id types.NoteID) (bool, error)
	MustClose()
}

type GenericNoteStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericNoteStore(dbProvider db.DatabaseProvider) (*GenericNoteStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericNoteStore{
		dbProvider: dbProvider,
	}, nil
}

func (ns *GenericNoteStore) Store(record *NoteRecord) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	noteData, err := jsonx.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal note record: %w", err)
	}

	if err := ns.dbProvider.Put(ns.getDbKey(record.Note.ID()), noteData); err != nil {
		return fmt.Errorf("failed to write note to db: %w", err)
	}

	return nil
}

func (ns *GenericNoteStore) GetByID(id types.NoteID) (*NoteRecord, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	data, err := ns.dbProvider.Get(ns.getDbKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read note from db: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var record NoteRecord
	if err := jsonx.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note record: %w", err)
	}
	return &record, nil
}

func (ns *GenericNoteStore) ExistsByID(id types.NoteID) (bool, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	return ns.dbProvider.Has(ns.getDbKey(id))
}

func (ns *GenericNoteStore) MustClose() {
	if err := ns.dbProvider.Close(); err != nil {
		panic(fmt.Sprintf("failed to close note store: %v", err))
	}
}

func (ns *GenericNoteStore) getDbKey(id types.NoteID) []byte {
	return []byte(PrefixNote + id.Hex())
}
