package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"gameshelf/internal/config"
	"gameshelf/internal/database"
	"gameshelf/internal/encryption"
	"gameshelf/internal/i18n"
	"gameshelf/internal/shelf"
	"gameshelf/internal/vault"
)

// snapshotName is the vault metadata name of the database snapshot.
const snapshotName = "db"

// ErrBehindRemote is returned at startup when the vault holds a newer
// snapshot than the local database.
var ErrBehindRemote = errors.New("local database is behind the vault snapshot")

// Options tune how an App is constructed.
type Options struct {
	// SkipVersionCheck allows starting while the vault snapshot is newer than
	// the local database. Only `snapshot pull` needs it.
	SkipVersionCheck bool

	// Stderr receives warnings and errors. Defaults to os.Stderr.
	Stderr io.Writer

	// Passphrase is asked for when an encrypted file or snapshot must be
	// opened. May be nil when no prompt is possible.
	Passphrase func() (string, error)

	// IDs generates the run ID written on every log line. Defaults to UUIDs.
	IDs shelf.IDGenerator
}

// App is the application layer between the CLI/API and the shelf core.
// It builds every dependency from config, keeps the active user between
// invocations and records mutating operations in the history.
type App struct {
	cfg        *config.Config
	opts       Options
	db         *database.SQLiteDatabase
	store      shelf.Database
	vault      shelf.Vault
	repo       *shelf.Repository
	covers     *shelf.Covers
	session    *shelf.Session
	translator *i18n.Translator
	log        shelf.Logger
	logFile    io.Closer
	dirty      atomic.Bool
}

// NewApp creates a fully wired App from cfg. The caller must call Close.
func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.IDs == nil {
		opts.IDs = shelf.UUIDGenerator{}
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := newLogger(cfg.LogDir, opts.IDs.New(), level, opts.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	a := &App{cfg: cfg, opts: opts, log: log, logFile: logFile, session: shelf.NewSession()}
	if err := a.init(ctx); err != nil {
		a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	tr, err := i18n.New(a.cfg.Language)
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}
	a.translator = tr

	if len(a.cfg.Vaults) > 0 {
		v, err := vault.NewVaultFromConfig(ctx, a.cfg.Vaults[0])
		if err != nil {
			return fmt.Errorf("creating vault: %w", err)
		}
		a.vault = v
	}

	db, err := database.NewDatabaseFromConfig(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	a.db = db
	a.store = database.AsShelfDatabase(db)

	if a.store != nil && !a.opts.SkipVersionCheck {
		if err := a.checkRemoteVersion(ctx); err != nil {
			return err
		}
	}

	a.repo = shelf.NewRepository(a.store, a.log)
	if a.vault != nil {
		a.covers = shelf.NewCovers(a.repo, a.vault, a.log)
	}

	return a.loadSession()
}

// checkRemoteVersion refuses to run on a database older than the vault snapshot.
func (a *App) checkRemoteVersion(ctx context.Context) error {
	if a.vault == nil {
		return nil
	}
	remote, err := a.vault.GetMetadataVersion(a.cfg.HostID, snapshotName)
	if err != nil {
		return fmt.Errorf("checking remote snapshot version: %w", err)
	}
	local, err := a.store.MaxOperationID(ctx)
	if err != nil {
		return fmt.Errorf("checking local version: %w", err)
	}
	if remote > local {
		return fmt.Errorf("%w (local=%d, remote=%d): run `shelf snapshot pull`", ErrBehindRemote, local, remote)
	}
	return nil
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Translator returns the label translator for the configured language.
func (a *App) Translator() *i18n.Translator { return a.translator }

// Logger returns the run's logger.
func (a *App) Logger() shelf.Logger { return a.log }

// StorageEnabled reports whether a record store is attached.
func (a *App) StorageEnabled() bool { return a.repo.Enabled() }

// Session

func (a *App) loadSession() error {
	st, err := config.ReadState(a.cfg.SessionPath())
	if err != nil {
		return err
	}
	if st.ActiveUser == "" {
		return nil
	}
	if err := a.session.Set(st.ActiveUser); err != nil {
		a.log.Warn("ignoring saved session", "user", st.ActiveUser, "error", err)
	}
	return nil
}

// CurrentUser returns the active profile.
func (a *App) CurrentUser() (string, bool) {
	return a.session.Current()
}

// SelectUser makes userID the active profile and remembers it.
func (a *App) SelectUser(userID string) error {
	if err := a.session.Set(userID); err != nil {
		return err
	}
	if err := config.WriteState(a.cfg.SessionPath(), &config.State{ActiveUser: userID}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	a.log.Info("user selected", "user", userID)
	return nil
}

// ClearUser logs the active profile out.
func (a *App) ClearUser() error {
	a.session.Clear()
	return config.RemoveState(a.cfg.SessionPath())
}

// Games

// ListGames loads the active user's collection and returns one page of it.
func (a *App) ListGames(ctx context.Context, q shelf.Query) (shelf.Page, error) {
	userID, err := a.session.Require()
	if err != nil {
		return shelf.Page{}, err
	}

	var games []shelf.Game
	if q.Platform != "" {
		games, err = a.repo.ListByPlatform(ctx, userID, q.Platform)
	} else {
		games, err = a.repo.ListAll(ctx, userID)
	}
	if err != nil {
		return shelf.Page{}, err
	}

	if q.PageSize <= 0 {
		q.PageSize = a.cfg.PageSize()
	}
	return shelf.NewCollectionView(games).View(q)
}

// Collection loads the active user's whole library into a view. The view is
// not refreshed from the store; callers drop deleted games with Remove.
func (a *App) Collection(ctx context.Context) (*shelf.CollectionView, error) {
	userID, err := a.session.Require()
	if err != nil {
		return nil, err
	}
	games, err := a.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return shelf.NewCollectionView(games), nil
}

// GetGame returns one game of the active user.
func (a *App) GetGame(ctx context.Context, id int64) (shelf.Game, error) {
	userID, err := a.session.Require()
	if err != nil {
		return shelf.Game{}, err
	}
	return a.repo.GetByID(ctx, userID, id)
}

// AddGame adds a game to the active user's collection.
func (a *App) AddGame(ctx context.Context, game shelf.Game) (int64, error) {
	userID, err := a.session.Require()
	if err != nil {
		return 0, err
	}
	var id int64
	err = a.track(ctx, "AddGame", userID, params("title", game.Title), func() error {
		var err error
		id, err = a.repo.Add(ctx, userID, game)
		return err
	})
	return id, err
}

// UpdateGame replaces a game of the active user.
func (a *App) UpdateGame(ctx context.Context, id int64, game shelf.Game) error {
	userID, err := a.session.Require()
	if err != nil {
		return err
	}
	return a.track(ctx, "UpdateGame", userID, params("id", id), func() error {
		return a.repo.Update(ctx, userID, id, game)
	})
}

// DeleteGame removes a game of the active user.
func (a *App) DeleteGame(ctx context.Context, id int64) error {
	userID, err := a.session.Require()
	if err != nil {
		return err
	}
	return a.track(ctx, "DeleteGame", userID, params("id", id), func() error {
		return a.repo.DeleteByID(ctx, userID, id)
	})
}

// ClearGames removes the active user's whole collection.
func (a *App) ClearGames(ctx context.Context) error {
	userID, err := a.session.Require()
	if err != nil {
		return err
	}
	return a.track(ctx, "ClearGames", userID, "", func() error {
		return a.repo.ClearAll(ctx, userID)
	})
}

// Transfer

// Import reads a library file into the store. Age-encrypted input is
// detected and decrypted with the passphrase from Options.
func (a *App) Import(ctx context.Context, r io.Reader, source string) (shelf.ImportResult, error) {
	userID, err := a.session.Require()
	if err != nil {
		return shelf.ImportResult{}, err
	}

	var plain bytes.Buffer
	if _, err := a.decrypt(r, &plain); err != nil {
		return shelf.ImportResult{}, err
	}

	var res shelf.ImportResult
	err = a.track(ctx, "Import", userID, params("source", source), func() error {
		var err error
		res, err = shelf.Import(ctx, a.repo, userID, &plain)
		return err
	})
	if err != nil {
		a.log.Warn("import stopped", "source", source, "imported", res.Imported, "error", err)
	}
	return res, err
}

// ImportSeed imports the built-in starter library.
func (a *App) ImportSeed(ctx context.Context) (shelf.ImportResult, error) {
	userID, err := a.session.Require()
	if err != nil {
		return shelf.ImportResult{}, err
	}
	var res shelf.ImportResult
	err = a.track(ctx, "Import", userID, params("source", "seed"), func() error {
		var err error
		res, err = shelf.ImportSeed(ctx, a.repo, userID)
		return err
	})
	return res, err
}

// Export writes the active user's library to w, optionally age-encrypted
// with ASCII armor.
func (a *App) Export(ctx context.Context, w io.Writer, encrypt bool) (int, error) {
	userID, err := a.session.Require()
	if err != nil {
		return 0, err
	}
	if !encrypt {
		return shelf.Export(ctx, a.repo, userID, w)
	}

	enc, err := a.encryptor(true)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	n, err := shelf.Export(ctx, a.repo, userID, &buf)
	if err != nil {
		return 0, err
	}
	if err := enc.Encrypt(&buf, w); err != nil {
		return 0, fmt.Errorf("encrypting export: %w", err)
	}
	return n, nil
}

func (a *App) encryptor(armored bool) (shelf.Encryptor, error) {
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption, armored)
	if err != nil {
		return nil, err
	}
	if !enc.IsConfigured() {
		return nil, fmt.Errorf("encryption keys not set up: run `shelf config init`")
	}
	return enc, nil
}

// decrypt copies r to w, decrypting it first when it is age or
// test-encrypted. It reports whether r was encrypted.
func (a *App) decrypt(r io.Reader, w io.Writer) (bool, error) {
	in, kind, err := encryption.Sniff(r)
	if err != nil {
		return false, err
	}
	if kind == encryption.KindPlain {
		// One byte past the limit is enough for the import to report the size.
		_, err := io.Copy(w, io.LimitReader(in, shelf.MaxImportSize+1))
		return false, err
	}

	if a.opts.Passphrase == nil {
		return true, fmt.Errorf("input is encrypted and no passphrase is available")
	}
	enc, err := a.encryptor(false)
	if err != nil {
		return true, err
	}
	passphrase, err := a.opts.Passphrase()
	if err != nil {
		return true, fmt.Errorf("reading passphrase: %w", err)
	}
	dc, err := enc.Unlock(passphrase)
	if err != nil {
		return true, err
	}
	return true, dc.Decrypt(in, w)
}

// Covers

// SetCover stores an image as the cover of one of the active user's games.
func (a *App) SetCover(ctx context.Context, id int64, r io.Reader) (string, error) {
	if a.covers == nil {
		return "", fmt.Errorf("no vault configured for covers")
	}
	userID, err := a.session.Require()
	if err != nil {
		return "", err
	}
	var sum string
	err = a.track(ctx, "SetCover", userID, params("id", id), func() error {
		var err error
		sum, err = a.covers.Set(ctx, userID, id, r)
		return err
	})
	return sum, err
}

// GetCover writes the stored cover of one of the active user's games to w.
func (a *App) GetCover(ctx context.Context, id int64, w io.Writer) error {
	if a.covers == nil {
		return fmt.Errorf("no vault configured for covers")
	}
	userID, err := a.session.Require()
	if err != nil {
		return err
	}
	return a.covers.Get(ctx, userID, id, w)
}

// Close finishes the run: when the run changed the library and auto_push is
// set, a snapshot is pushed to the vault before the database is closed.
func (a *App) Close() error {
	var firstErr error

	if a.dirty.Load() && a.cfg.Snapshot.AutoPush && a.vault != nil && a.db != nil {
		if _, err := a.PushSnapshot(context.Background()); err != nil {
			firstErr = err
			a.log.Error("automatic snapshot push failed", "error", err)
		}
	}

	if err := a.closeResources(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (a *App) closeResources() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
		a.db = nil
		a.store = nil
	}
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
	return firstErr
}
