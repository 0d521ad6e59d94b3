package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/heirloom-labs/heirloom/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMasterKey(t *testing.T) string {
	t.Helper()
	var mk [32]byte
	_, err := rand.Read(mk[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(mk[:])
}

func testAccountID(t *testing.T, seed string) types.AccountID {
	t.Helper()
	return types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte(seed))
}

func TestAddGetRoundTrip(t *testing.T) {
	ks, err := NewFilesystemKeyStore(t.TempDir(), testMasterKey(t))
	require.NoError(t, err)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id := testAccountID(t, "round-trip")

	require.NoError(t, ks.AddKey(id, priv))
	got, err := ks.GetKey(id)
	require.NoError(t, err)
	assert.Equal(t, priv, got)
}

func TestGetKeyUnknownAccount(t *testing.T) {
	ks, err := NewFilesystemKeyStore(t.TempDir(), testMasterKey(t))
	require.NoError(t, err)

	_, err = ks.GetKey(testAccountID(t, "nobody"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSeedIsNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewFilesystemKeyStore(dir, testMasterKey(t))
	require.NoError(t, err)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id := testAccountID(t, "ciphertext")
	require.NoError(t, ks.AddKey(id, priv))

	raw, err := os.ReadFile(filepath.Join(dir, id.String()+".key"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), string(priv.Seed()))
}

func TestWrongMasterKeyFailsDecryption(t *testing.T) {
	dir := t.TempDir()
	ks, err := NewFilesystemKeyStore(dir, testMasterKey(t))
	require.NoError(t, err)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id := testAccountID(t, "wrong-key")
	require.NoError(t, ks.AddKey(id, priv))

	other, err := NewFilesystemKeyStore(dir, testMasterKey(t))
	require.NoError(t, err)
	_, err = other.GetKey(id)
	assert.Error(t, err)
}

func TestRejectsBadMasterKey(t *testing.T) {
	_, err := NewFilesystemKeyStore(t.TempDir(), "not-base64!")
	assert.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = NewFilesystemKeyStore(t.TempDir(), short)
	assert.Error(t, err)
}

func TestAddKeyRejectsMalformedKey(t *testing.T) {
	ks, err := NewFilesystemKeyStore(t.TempDir(), testMasterKey(t))
	require.NoError(t, err)

	err = ks.AddKey(testAccountID(t, "bad-len"), ed25519.PrivateKey{0x01, 0x02})
	assert.Error(t, err)
}
