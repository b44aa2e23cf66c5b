package crypto

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/sha3"
)

// HashSizeByte is the size of the hash output in bytes.
const HashSizeByte = 32

// Keccak256 hashes all passed byte slices with the legacy (pre-NIST)
// Keccak-256 permutation used by Ethereum and Swarm.
// The passed slices won't be mutated.
func Keccak256(ms ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, m := range ms {
		h.Write(m)
	}
	return h.Sum(nil)
}

// MakeRand returns a random slice of HashSizeByte bytes.
// It returns an error if there was a problem while generating
// the random slice.
// The system's PRNG output is hashed before it is returned, so the
// bytes that end up in a serialized manifest are never raw PRNG state.
func MakeRand() ([]byte, error) {
	r := make([]byte, HashSizeByte)
	if _, err := io.ReadFull(rand.Reader, r); err != nil {
		return nil, err
	}
	return Keccak256(r), nil
}
