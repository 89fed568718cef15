package crypto

import (
	"crypto/rand"
	"math/big"
)

const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns a cryptographically secure random string of the given
// length using only characters from alphabet.
func RandomString(length int, alphabet string) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// rand.Reader failing means the platform RNG is broken. There
			// is no meaningful recovery for security-sensitive randomness.
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}
