/*
Package randx provides cryptographically secure random values and unique identifiers.

It backs the mob encounter rolls (fixed-length hex strings and bounded integers)
and the UUID session identifiers used to reference user records.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/google/uuid"
)

// Source is the randomness consumed by the mob encounter engine.
type Source interface {
	// Hex returns a random lowercase hexadecimal string of length n.
	Hex(n int) string

	// Intn returns a uniformly distributed integer in [0, n). It returns 0 for n <= 0.
	Intn(n int) int
}

// Crypto is a Source backed by crypto/rand.
type Crypto struct{}

// Hex returns a random lowercase hexadecimal string of length n.
// It panics only if the operating system's random source fails.
func (Crypto) Hex(n int) string {
	if n <= 0 {
		return ""
	}

	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		panic("randx: crypto/rand failed: " + err.Error())
	}

	return hex.EncodeToString(buf)[:n]
}

// Intn returns a uniformly distributed integer in [0, n).
func (Crypto) Intn(n int) int {
	if n <= 0 {
		return 0
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("randx: crypto/rand failed: " + err.Error())
	}

	return int(num.Int64())
}

// SessionID generates a UUID v4 string identifying one user record.
func SessionID() string {
	return uuid.New().String()
}
