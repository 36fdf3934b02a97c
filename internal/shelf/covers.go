package shelf

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// maxCoverSize bounds the size of a single cover image.
const maxCoverSize = 16 << 20

// Covers stores cover images for games in a vault. Images are addressed by
// the SHA-256 of their bytes and the checksum becomes the game's Image
// reference, so identical covers are stored once.
type Covers struct {
	repo   *Repository
	vault  Vault
	logger Logger
}

// NewCovers creates a Covers over repo and vault.
func NewCovers(repo *Repository, vault Vault, logger Logger) *Covers {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Covers{repo: repo, vault: vault, logger: logger}
}

// Set stores the image read from r as the cover of game id and returns its
// checksum. The game must belong to userID.
func (c *Covers) Set(ctx context.Context, userID string, id int64, r io.Reader) (string, error) {
	game, err := c.repo.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, maxCoverSize+1))
	if err != nil {
		return "", fmt.Errorf("reading cover: %w", err)
	}
	if len(data) > maxCoverSize {
		return "", fmt.Errorf("cover exceeds %d bytes", maxCoverSize)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("cover is empty")
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	if err := c.vault.PutContent(checksum, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("storing cover: %w", err)
	}

	game.Image = checksum
	if err := c.repo.Update(ctx, userID, id, game); err != nil {
		return "", err
	}
	c.logger.Info("cover stored", "user", userID, "id", id, "checksum", checksum)
	return checksum, nil
}

// Get writes the stored cover of game id to w.
func (c *Covers) Get(ctx context.Context, userID string, id int64, w io.Writer) error {
	game, err := c.repo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if !isChecksum(game.Image) {
		return ErrNoCover
	}
	if err := c.vault.GetContent(game.Image, w); err != nil {
		return fmt.Errorf("loading cover: %w", err)
	}
	return nil
}

func isChecksum(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
