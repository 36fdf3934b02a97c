package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gameshelf/internal/shelf"
)

// FileSystemVault stores vault objects as files below root, using the same
// layout as every other backend (see layout.go). Writes are atomic.
type FileSystemVault struct {
	name string
	root string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	for _, dir := range []string{"covers", "snapshots"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create vault directory: %w", err)
		}
	}
	return &FileSystemVault{name: name, root: root}, nil
}

func (v *FileSystemVault) pathOf(key string) string {
	return filepath.Join(v.root, filepath.FromSlash(key))
}

// PutContent is idempotent: an existing cover is kept and the reader drained.
func (v *FileSystemVault) PutContent(checksum string, r io.Reader, size int64) error {
	key, err := coverKey(checksum)
	if err != nil {
		return err
	}
	dest := v.pathOf(key)

	if _, err := os.Stat(dest); err == nil {
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}

	return writeAtomic(dest, r, size)
}

func (v *FileSystemVault) GetContent(checksum string, w io.Writer) error {
	key, err := coverKey(checksum)
	if err != nil {
		return err
	}
	return readInto(v.pathOf(key), w)
}

// PutMetadata writes the snapshot first and its version marker second, so a
// reader never sees a version newer than the data.
func (v *FileSystemVault) PutMetadata(hostID string, name string, r io.Reader, size int64, version int64) error {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return err
	}
	if err := writeAtomic(v.pathOf(key), r, size); err != nil {
		return err
	}

	data := strconv.FormatInt(version, 10)
	return writeAtomic(v.pathOf(versionKey(key)), strings.NewReader(data), int64(len(data)))
}

func (v *FileSystemVault) GetMetadata(hostID string, name string, w io.Writer) error {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return err
	}
	return readInto(v.pathOf(key), w)
}

// GetMetadataVersion returns 0 if no version file exists.
func (v *FileSystemVault) GetMetadataVersion(hostID string, name string) (int64, error) {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return 0, err
	}

	data, err := os.ReadFile(v.pathOf(versionKey(key)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, filepath.Join(v.root, "covers"), filepath.Join(v.root, "snapshots")} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeAtomic copies r into a temp file next to dest and renames it into place.
func writeAtomic(dest string, r io.Reader, expectedSize int64) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func readInto(src string, w io.Writer) error {
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", filepath.Base(src), ErrNotFound)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

var _ shelf.Vault = (*FileSystemVault)(nil)
