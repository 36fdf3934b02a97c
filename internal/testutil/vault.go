package testutil

import (
	"testing"

	"gameshelf/internal/shelf"
	"gameshelf/internal/vault"
)

// NewTestVault returns an empty memory vault named after the running test.
func NewTestVault(t *testing.T) shelf.Vault {
	t.Helper()
	return vault.NewMemoryVault(t.Name())
}
