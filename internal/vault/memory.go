package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"gameshelf/internal/shelf"
)

// MemoryVault keeps every object in a map keyed by its vault path.
// It is used by tests and by the "memory" vault type. Safe for concurrent use.
type MemoryVault struct {
	name     string
	mu       sync.RWMutex
	objects  map[string][]byte
	versions map[string]int64
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:     name,
		objects:  make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

func (m *MemoryVault) put(key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryVault) get(key string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (m *MemoryVault) PutContent(checksum string, r io.Reader, size int64) error {
	key, err := coverKey(checksum)
	if err != nil {
		return err
	}
	return m.put(key, r, size)
}

func (m *MemoryVault) GetContent(checksum string, w io.Writer) error {
	key, err := coverKey(checksum)
	if err != nil {
		return err
	}
	return m.get(key, w)
}

func (m *MemoryVault) PutMetadata(hostID string, name string, r io.Reader, size int64, version int64) error {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return err
	}
	if err := m.put(key, r, size); err != nil {
		return err
	}

	m.mu.Lock()
	m.versions[key] = version
	m.mu.Unlock()
	return nil
}

func (m *MemoryVault) GetMetadata(hostID string, name string, w io.Writer) error {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return err
	}
	return m.get(key, w)
}

// GetMetadataVersion returns 0 if the snapshot was never stored.
func (m *MemoryVault) GetMetadataVersion(hostID string, name string) (int64, error) {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[key], nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ shelf.Vault = (*MemoryVault)(nil)
