package keystore

import (
	"crypto/ed25519"
	"database/sql"
	"errors"

	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/types"

	_ "github.com/lib/pq"
)

// PgKeyStore keeps encrypted seeds in Postgres, keyed by account id.
//
// Schema:
//
//	CREATE TABLE heirloom_account_keys (
//	    account_id TEXT PRIMARY KEY,
//	    enc_seed   BYTEA NOT NULL
//	);
type PgKeyStore struct {
	db      *sql.DB
	cryptor *cryptor
}

// NewPgKeyStore wraps an opened Postgres handle.
func NewPgKeyStore(db *sql.DB, base64MasterKey string) (*PgKeyStore, error) {
	c, err := newCryptor(base64MasterKey)
	if err != nil {
		return nil, err
	}
	return &PgKeyStore{db: db, cryptor: c}, nil
}

// AddKey stores the account's signing key.
func (ks *PgKeyStore) AddKey(id types.AccountID, key ed25519.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return errors.New("keystore: bad private key length")
	}
	enc, err := ks.cryptor.encrypt(key.Seed())
	if err != nil {
		return err
	}
	_, err = ks.db.Exec(
		`INSERT INTO heirloom_account_keys(account_id, enc_seed) VALUES($1,$2)
		 ON CONFLICT (account_id) DO UPDATE SET enc_seed = EXCLUDED.enc_seed`,
		id.String(), enc,
	)
	return err
}

// GetKey loads and decrypts the account's signing key.
func (ks *PgKeyStore) GetKey(id types.AccountID) (ed25519.PrivateKey, error) {
	var enc []byte
	err := ks.db.QueryRow(
		`SELECT enc_seed FROM heirloom_account_keys WHERE account_id=$1`, id.String(),
	).Scan(&enc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	seed, err := ks.cryptor.decrypt(enc)
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("keystore: corrupt seed")
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

var _ interfaces.KeyStore = (*PgKeyStore)(nil)
