// Package publicid generates the opaque alphanumeric identifiers every
// externally visible entity carries. These are distinct from internal numeric
// keys and are the only identifiers that appear on the wire.
package publicid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the canonical identifier length.
const Length = 32

// New returns a random identifier of the given length.
func New(length int) string {
	if length <= 0 {
		length = Length
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// nothing sensible to do but give up loudly.
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
