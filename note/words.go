package note

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/types"
)

// CryptoWordSource draws serial words from crypto/rand.
type CryptoWordSource struct{}

func NewCryptoWordSource() *CryptoWordSource {
	return &CryptoWordSource{}
}

func (s *CryptoWordSource) DrawWord() types.Word {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	var w types.Word
	for i := range w {
		w[i] = types.Felt(binary.BigEndian.Uint64(buf[i*8:]))
	}
	return w
}

var _ interfaces.WordSource = (*CryptoWordSource)(nil)
