package vault

import (
	"context"
	"fmt"
	"path/filepath"

	"gameshelf/internal/config"
	"gameshelf/internal/shelf"
)

// NewVaultFromConfig builds the cover and snapshot store described by cfg.
// A relative fs_vault_root is resolved against the working directory.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (shelf.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("vault %q: fs_vault_root is required", cfg.Name)
		}
		root, err := filepath.Abs(cfg.FSVaultRoot)
		if err != nil {
			return nil, fmt.Errorf("vault %q: %w", cfg.Name, err)
		}
		return NewFileSystemVault(cfg.Name, root)
	case "s3":
		return NewS3Vault(ctx, cfg)
	default:
		return nil, fmt.Errorf("vault %q: unknown type %q", cfg.Name, cfg.Type)
	}
}
