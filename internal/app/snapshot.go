package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gameshelf/internal/database"
	"gameshelf/internal/shelf"
)

// ErrNoSnapshot is returned by PullSnapshot when the vault has nothing to pull.
var ErrNoSnapshot = errors.New("no snapshot in vault")

// PushSnapshot uploads a consistent copy of the database to the vault,
// versioned by the newest operation ID. Snapshots are age-encrypted when
// [snapshot] encrypt is set.
func (a *App) PushSnapshot(ctx context.Context) (int64, error) {
	if a.vault == nil {
		return 0, fmt.Errorf("no vault configured")
	}
	if a.db == nil {
		return 0, fmt.Errorf("database is disabled")
	}

	version, err := a.store.MaxOperationID(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading local version: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "shelf-snapshot-")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "shelf.db")
	if err := a.db.BackupTo(path); err != nil {
		return 0, err
	}

	if a.cfg.Snapshot.Encrypt {
		enc, err := a.encryptor(false)
		if err != nil {
			return 0, err
		}
		encPath := path + ".age"
		if err := transformFile(path, encPath, enc.Encrypt); err != nil {
			return 0, fmt.Errorf("encrypting snapshot: %w", err)
		}
		path = encPath
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if err := a.vault.PutMetadata(a.cfg.HostID, snapshotName, f, info.Size(), version); err != nil {
		return 0, fmt.Errorf("uploading snapshot: %w", err)
	}
	a.dirty.Store(false)
	a.log.Info("snapshot pushed", "version", version, "bytes", info.Size(), "encrypted", a.cfg.Snapshot.Encrypt)
	return version, nil
}

// PullSnapshot replaces the local database with the vault snapshot.
// Only file-backed databases can be replaced.
func (a *App) PullSnapshot(ctx context.Context) (int64, error) {
	if a.vault == nil {
		return 0, fmt.Errorf("no vault configured")
	}
	if a.db == nil || a.cfg.Database.Type != "sqlite" {
		return 0, fmt.Errorf("snapshot pull needs a sqlite database, have %q", a.cfg.Database.Type)
	}

	version, err := a.vault.GetMetadataVersion(a.cfg.HostID, snapshotName)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot version: %w", err)
	}
	if version == 0 {
		return 0, ErrNoSnapshot
	}

	dbPath := a.db.Path()
	downloaded := dbPath + ".pull"
	plain := dbPath + ".pull.plain"
	defer os.Remove(downloaded)
	defer os.Remove(plain)

	if err := a.download(downloaded); err != nil {
		return 0, err
	}
	err = transformFile(downloaded, plain, func(r io.Reader, w io.Writer) error {
		_, err := a.decrypt(r, w)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("decrypting snapshot: %w", err)
	}

	// Bring old snapshots up to the current schema before swapping them in.
	check, err := database.NewSQLiteDatabase(plain, nil)
	if err != nil {
		return 0, err
	}
	if err := check.Migrate(); err != nil {
		check.Close()
		return 0, fmt.Errorf("snapshot schema: %w", err)
	}
	if err := check.Close(); err != nil {
		return 0, err
	}

	if err := a.db.Close(); err != nil {
		return 0, fmt.Errorf("closing database: %w", err)
	}
	a.db, a.store = nil, nil

	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return 0, err
		}
	}
	if err := os.Rename(plain, dbPath); err != nil {
		return 0, fmt.Errorf("replacing database: %w", err)
	}

	if err := a.reopen(); err != nil {
		return 0, err
	}
	a.log.Info("snapshot pulled", "version", version)
	return version, nil
}

func (a *App) download(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.vault.GetMetadata(a.cfg.HostID, snapshotName, f); err != nil {
		f.Close()
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	return f.Close()
}

func (a *App) reopen() error {
	db, err := database.NewDatabaseFromConfig(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("reopening database: %w", err)
	}
	a.db = db
	a.store = database.AsShelfDatabase(db)
	a.repo = shelf.NewRepository(a.store, a.log)
	if a.vault != nil {
		a.covers = shelf.NewCovers(a.repo, a.vault, a.log)
	}
	return nil
}

// transformFile streams src through fn into a new file at dst.
func transformFile(src, dst string, fn func(io.Reader, io.Writer) error) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := fn(in, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Status summarizes where the app keeps its data and how it relates to the vault.
type Status struct {
	HostID        string
	ActiveUser    string
	Database      string
	SchemaError   error
	LocalVersion  int64
	RemoteVersion int64
	Vault         bool
}

// Status reports the local and remote state. Vault and schema problems are
// reported in the result rather than failing the call.
func (a *App) Status(ctx context.Context) (Status, error) {
	st := Status{HostID: a.cfg.HostID, Database: a.cfg.Database.Type, Vault: a.vault != nil}
	st.ActiveUser, _ = a.session.Current()

	if a.db != nil {
		st.Database = a.db.Path()
		st.SchemaError = a.db.CheckMigrations()
		v, err := a.store.MaxOperationID(ctx)
		if err != nil {
			return st, err
		}
		st.LocalVersion = v
	}
	if a.vault != nil {
		v, err := a.vault.GetMetadataVersion(a.cfg.HostID, snapshotName)
		if err != nil {
			return st, fmt.Errorf("reading snapshot version: %w", err)
		}
		st.RemoteVersion = v
	}
	return st, nil
}
