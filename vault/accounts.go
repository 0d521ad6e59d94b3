package vault

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/types"
)

// CreateBasicAccount registers a public basic wallet, generating its
// signing key and storing it in the keystore.
func CreateBasicAccount(ctx context.Context, client interfaces.LedgerClient, keystore interfaces.KeyStore) (types.AccountID, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return types.AccountID{}, fmt.Errorf("could not generate account key: %w", err)
	}

	id, err := client.CreateAccount(ctx, interfaces.CreateAccountRequest{
		Type:        types.AccountTypeBasicWallet,
		StorageMode: types.StoragePublic,
		AuthKey:     pub,
	})
	if err != nil {
		return types.AccountID{}, err
	}
	if err := keystore.AddKey(id, priv); err != nil {
		return types.AccountID{}, fmt.Errorf("could not store account key: %w", err)
	}
	return id, nil
}
