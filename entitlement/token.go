package entitlement

import (
	"crypto/rand"
	"encoding/hex"
)

// NewToken returns a 64-character hex token carrying 256 bits of entropy.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
