package ledger

import (
	"github.com/heirloom-labs/heirloom/db"
	"github.com/heirloom-labs/heirloom/store"
)

// NewInMemory wires a ledger over a single in-memory provider. Tests and
// the demo flow use this.
func NewInMemory() (*Ledger, error) {
	return newWithProvider(db.NewMemoryProvider())
}

// NewOnDisk wires a ledger over a LevelDB directory. All stores share one
// provider; key prefixes keep them disjoint.
func NewOnDisk(directory string) (*Ledger, error) {
	provider, err := db.NewLevelDBProvider(directory)
	if err != nil {
		return nil, err
	}
	return newWithProvider(provider)
}

func newWithProvider(provider db.DatabaseProvider) (*Ledger, error) {
	accountStore, err := store.NewGenericAccountStore(provider)
	if err != nil {
		return nil, err
	}
	noteStore, err := store.NewGenericNoteStore(provider)
	if err != nil {
		return nil, err
	}
	nullifierStore, err := store.NewGenericNullifierStore(provider)
	if err != nil {
		return nil, err
	}
	metaStore, err := store.NewGenericStateMetaStore(provider)
	if err != nil {
		return nil, err
	}
	return NewLedger(accountStore, noteStore, nullifierStore, metaStore)
}
