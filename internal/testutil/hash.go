package testutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// CoverChecksum is the vault key a cover with the given bytes is stored
// under: lowercase hex SHA-256.
func CoverChecksum(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
