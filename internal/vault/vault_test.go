package vault

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gameshelf/internal/shelf"
)

const (
	sumA = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	sumB = "60303ae22b998861bce3b28f33eec1be758a213c86c93c076dbe9f558c11c752"
)

// vaultFactories lists every backend that can run without network access.
func vaultFactories(t *testing.T) map[string]func() shelf.Vault {
	return map[string]func() shelf.Vault{
		"memory": func() shelf.Vault { return NewMemoryVault("test") },
		"filesystem": func() shelf.Vault {
			v, err := NewFileSystemVault("test", t.TempDir())
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}
			return v
		},
		"s3-fake": func() shelf.Vault {
			fake := newFakeS3()
			return newS3Vault("test", "bucket", "shelf", fake, fake)
		},
	}
}

func TestVault_Content(t *testing.T) {
	for name, newVault := range vaultFactories(t) {
		t.Run(name, func(t *testing.T) {
			v := newVault()

			if err := v.PutContent(sumA, strings.NewReader("cover"), 5); err != nil {
				t.Fatalf("PutContent() error = %v", err)
			}
			// Storing the same checksum again is allowed.
			if err := v.PutContent(sumA, strings.NewReader("cover"), 5); err != nil {
				t.Fatalf("second PutContent() error = %v", err)
			}

			var buf bytes.Buffer
			if err := v.GetContent(sumA, &buf); err != nil {
				t.Fatalf("GetContent() error = %v", err)
			}
			if buf.String() != "cover" {
				t.Errorf("GetContent() = %q, want %q", buf.String(), "cover")
			}

			err := v.GetContent(sumB, &buf)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("GetContent(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestVault_SizeMismatch(t *testing.T) {
	for name, newVault := range vaultFactories(t) {
		t.Run(name, func(t *testing.T) {
			v := newVault()
			if err := v.PutContent(sumB, strings.NewReader("abc"), 10); err == nil {
				t.Error("PutContent() expected size mismatch error")
			}
		})
	}
}

func TestVault_Metadata(t *testing.T) {
	for name, newVault := range vaultFactories(t) {
		t.Run(name, func(t *testing.T) {
			v := newVault()

			version, err := v.GetMetadataVersion("host-1", "db")
			if err != nil {
				t.Fatalf("GetMetadataVersion() error = %v", err)
			}
			if version != 0 {
				t.Errorf("GetMetadataVersion() before put = %d, want 0", version)
			}

			if err := v.PutMetadata("host-1", "db", strings.NewReader("snap-1"), 6, 3); err != nil {
				t.Fatalf("PutMetadata() error = %v", err)
			}
			if err := v.PutMetadata("host-1", "db", strings.NewReader("snap-22"), 7, 7); err != nil {
				t.Fatalf("PutMetadata() overwrite error = %v", err)
			}

			version, err = v.GetMetadataVersion("host-1", "db")
			if err != nil {
				t.Fatalf("GetMetadataVersion() error = %v", err)
			}
			if version != 7 {
				t.Errorf("GetMetadataVersion() = %d, want 7", version)
			}

			var buf bytes.Buffer
			if err := v.GetMetadata("host-1", "db", &buf); err != nil {
				t.Fatalf("GetMetadata() error = %v", err)
			}
			if buf.String() != "snap-22" {
				t.Errorf("GetMetadata() = %q, want %q", buf.String(), "snap-22")
			}

			if err := v.GetMetadata("host-2", "db", &buf); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetMetadata(other host) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestVault_RejectsUnsafeNames(t *testing.T) {
	for name, newVault := range vaultFactories(t) {
		t.Run(name, func(t *testing.T) {
			v := newVault()
			if err := v.PutMetadata("../etc", "db", strings.NewReader("x"), 1, 1); err == nil {
				t.Error("PutMetadata() accepted a host id with a path separator")
			}
			if err := v.PutContent("", strings.NewReader("x"), 1); err == nil {
				t.Error("PutContent() accepted an empty checksum")
			}
			if err := v.ValidateSetup(); err != nil {
				t.Errorf("ValidateSetup() error = %v", err)
			}
		})
	}
}
