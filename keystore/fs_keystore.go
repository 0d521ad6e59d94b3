// Package keystore persists account signing keys. Keys are AES-GCM
// encrypted under a 32-byte master key; the filesystem store keeps one file
// per account, the Postgres store one row.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/types"
)

// ErrKeyNotFound is returned when no key is stored for the account.
var ErrKeyNotFound = errors.New("keystore: key not found")

type cryptor struct {
	aead cipher.AEAD
}

func newCryptor(base64MasterKey string) (*cryptor, error) {
	mk, err := base64.StdEncoding.DecodeString(base64MasterKey)
	if err != nil {
		return nil, fmt.Errorf("master-key decode: %w", err)
	}
	if len(mk) != 32 {
		return nil, errors.New("master-key must be 32 bytes")
	}

	block, _ := aes.NewCipher(mk)
	aead, _ := cipher.NewGCM(block)
	return &cryptor{aead: aead}, nil
}

func (c *cryptor) encrypt(plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return append(nonce, c.aead.Seal(nil, nonce, plain, nil)...), nil
}

func (c *cryptor) decrypt(ciphertext []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(ciphertext) < ns {
		return nil, errors.New("ciphertext too short")
	}
	return c.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
}

// FilesystemKeyStore keeps encrypted seeds under a directory, one file per
// account id.
type FilesystemKeyStore struct {
	dir     string
	cryptor *cryptor
}

// NewFilesystemKeyStore opens (creating if needed) a keystore directory.
func NewFilesystemKeyStore(dir string, base64MasterKey string) (*FilesystemKeyStore, error) {
	c, err := newCryptor(base64MasterKey)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("keystore dir: %w", err)
	}
	return &FilesystemKeyStore{dir: dir, cryptor: c}, nil
}

// AddKey stores the account's signing key. Only the 32-byte seed is
// persisted.
func (ks *FilesystemKeyStore) AddKey(id types.AccountID, key ed25519.PrivateKey) error {
	if len(key) != ed25519.PrivateKeySize {
		return errors.New("keystore: bad private key length")
	}
	enc, err := ks.cryptor.encrypt(key.Seed())
	if err != nil {
		return err
	}
	return os.WriteFile(ks.path(id), enc, 0o600)
}

// GetKey loads and decrypts the account's signing key.
func (ks *FilesystemKeyStore) GetKey(id types.AccountID) (ed25519.PrivateKey, error) {
	enc, err := os.ReadFile(ks.path(id))
	if os.IsNotExist(err) {
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

func (ks *FilesystemKeyStore) path(id types.AccountID) string {
	return filepath.Join(ks.dir, id.String()+".key")
}

var _ interfaces.KeyStore = (*FilesystemKeyStore)(nil)
