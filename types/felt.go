package types

import (
	"encoding/binary"
	"fmt"
)

// Felt is a single field element of the note ledger. Heights, tags,
// identifier halves and script inputs are all carried as felts.
type Felt uint64

// Word is the four-felt unit used for serial numbers.
type Word [4]Felt

func (f Felt) Uint64() uint64 {
	return uint64(f)
}

// Bytes32 returns the felt as a 32-byte big-endian value, the layout
// commitment hashing expects.
func (f Felt) Bytes32() [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[24:], uint64(f))
	return out
}

func (w Word) Bytes() []byte {
	out := make([]byte, 0, 32)
	for _, f := range w {
		b := f.Bytes32()
		out = append(out, b[24:]...)
	}
	return out
}

func (w Word) String() string {
	return fmt.Sprintf("[%d %d %d %d]", w[0], w[1], w[2], w[3])
}
