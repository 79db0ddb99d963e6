package utils

import (
	"crypto/rand"
	"math/big"
)

// Confirmation codes avoid ambiguous characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateConfirmationCode returns a short customer-facing booking code such as "BK-7XQ2M9KD".
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, 8)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return "BK-" + string(buf), nil
}
