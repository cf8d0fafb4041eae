package helpers

import (
	"crypto/rand"
	"math/big"
)

const secretAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateSecret returns an n character password for accounts created
// without one.
func GenerateSecret(n int) (string, error) {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(secretAlphabet)))
	for i := range b {
		k, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = secretAlphabet[k.Int64()]
	}
	return string(b), nil
}
