package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// PINHasher derives credential digests from plaintext PINs. The digest is
// deterministic for a given salt, which lets the repository look callers up
// by exact digest match without a per-row salt.
type PINHasher struct {
	salt string
}

func NewPINHasher(salt string) *PINHasher {
	return &PINHasher{salt: salt}
}

// Digest returns the lowercase hex SHA-256 of the PIN concatenated with the
// process salt. Plaintext PINs are never stored or logged.
func (h *PINHasher) Digest(pin string) string {
	sum := sha256.Sum256([]byte(pin + h.salt))
	return hex.EncodeToString(sum[:])
}
