package interfaces

import (
	"crypto/ed25519"

	"github.com/heirloom-labs/heirloom/types"
)

// KeyStore maps account identifiers to their signing keys. The core treats
// it as an opaque capability and never inspects its layout.
type KeyStore interface {
	AddKey(id types.AccountID, key ed25519.PrivateKey) error
	GetKey(id types.AccountID) (ed25519.PrivateKey, error)
}

// WordSource supplies serial-number words. Injected so tests can hand the
// note builder a deterministic sequence.
type WordSource interface {
	DrawWord() types.Word
}
