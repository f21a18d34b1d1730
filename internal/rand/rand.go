// Package rand mints random entity identifiers.
//
// Trilium identifies every note, branch, attribute and attachment by a
// 12-character string drawn from [a-zA-Z0-9]. The server mints one when
// an entity is created without an explicit ID; clients may also supply
// their own, which is what this package is for.
package rand

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// EntityIDLength is the length of every server-minted entity ID.
const EntityIDLength = 12

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var defaultSource = newSource()

func newSource() *source {
	seed := make([]byte, 16)

	if _, err := cryptorand.Read(seed); err != nil {
		panic("unreachable")
	}

	return &source{
		//nolint:gosec // entity IDs are identifiers, not secrets
		rng: rand.New(rand.NewPCG(
			binary.LittleEndian.Uint64(seed[:8]),
			binary.LittleEndian.Uint64(seed[8:]),
		)),
	}
}

type source struct {
	mut sync.Mutex
	rng *rand.Rand
}

// str draws length characters from charset, uniformly distributed.
func (s *source) str(length int) string {
	buf := make([]byte, length)

	s.mut.Lock()
	for i := range buf {
		buf[i] = charset[s.rng.IntN(len(charset))]
	}
	s.mut.Unlock()

	return string(buf)
}

// NewEntityID returns a fresh 12-character entity ID.
func NewEntityID() string {
	return defaultSource.str(EntityIDLength)
}
