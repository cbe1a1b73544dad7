// Package randid generates short random identifiers.
package randid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random string of the given length drawn from [a-z0-9].
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("randid: crypto/rand failed: " + err.Error())
		}
		buf[i] = alphabet[n.Int64()]
	}

	return string(buf)
}
