// Package redeem holds the privileged code set that mints pro sessions.
// Each valid redemption mints a new independent session; codes carry no
// linkage to a real identity.
package redeem

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Registry is the configured set of privileged codes. Entries may be
// plaintext or bcrypt hashes; hashed entries keep the plaintext out of
// config files.
type Registry struct {
	codes []string
}

// NewRegistry builds a registry, dropping empty entries.
func NewRegistry(codes []string) *Registry {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return &Registry{codes: out}
}

// Len returns how many codes are configured.
func (r *Registry) Len() int { return len(r.codes) }

// Match reports whether code matches any configured entry. Plaintext
// entries compare in constant time; hashed entries go through bcrypt.
func (r *Registry) Match(code string) bool {
	if code == "" {
		return false
	}
	for _, entry := range r.codes {
		if isBcryptHash(entry) {
			if bcrypt.CompareHashAndPassword([]byte(entry), []byte(code)) == nil {
				return true
			}
			continue
		}
		if len(entry) == len(code) && subtle.ConstantTimeCompare([]byte(entry), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// isBcryptHash detects common bcrypt PHC prefixes.
func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
