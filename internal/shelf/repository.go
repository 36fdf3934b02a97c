package shelf

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Repository is the user-scoped façade over the record store.
//
// Every point read and every mutation checks that the record belongs to the
// calling user; records of other users behave as if they did not exist.
//
// A Repository built without a Database models an environment where local
// storage is unavailable: reads return nothing and writes are dropped.
type Repository struct {
	db     Database
	logger Logger

	warnOnce sync.Once
}

// NewRepository creates a Repository over db. db may be nil.
func NewRepository(db Database, logger Logger) *Repository {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Repository{db: db, logger: logger}
}

// Enabled reports whether a record store is attached.
func (r *Repository) Enabled() bool {
	return r.db != nil
}

func (r *Repository) available() bool {
	if r.db != nil {
		return true
	}
	r.warnOnce.Do(func() {
		r.logger.Warn("record store is not available; operations are ignored")
	})
	return false
}

// ListAll returns every game owned by userID.
func (r *Repository) ListAll(ctx context.Context, userID string) ([]Game, error) {
	if userID == "" {
		return nil, ErrNoActiveUser
	}
	if !r.available() {
		return []Game{}, nil
	}
	records, err := r.db.ListRecordsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return unwrapAll(records), nil
}

// ListByPlatform returns the games owned by userID on one platform.
func (r *Repository) ListByPlatform(ctx context.Context, userID string, platform Platform) ([]Game, error) {
	if userID == "" {
		return nil, ErrNoActiveUser
	}
	if !r.available() {
		return []Game{}, nil
	}
	records, err := r.db.ListRecordsByUserAndPlatform(ctx, userID, platform)
	if err != nil {
		return nil, fmt.Errorf("listing games by platform: %w", err)
	}
	return unwrapAll(records), nil
}

// Add stores a new game for userID and returns its generated ID.
// Any ID already set on game is ignored.
func (r *Repository) Add(ctx context.Context, userID string, game Game) (int64, error) {
	if userID == "" {
		return 0, ErrNoActiveUser
	}
	if err := game.Validate(); err != nil {
		return 0, err
	}
	if !r.available() {
		return 0, nil
	}
	rec, err := r.db.InsertRecord(ctx, userID, game.normalized())
	if err != nil {
		return 0, fmt.Errorf("adding game: %w", err)
	}
	r.logger.Info("game added", "user", userID, "id", rec.ID, "title", rec.Game.Title)
	return rec.ID, nil
}

// GetByID returns the game with the given ID if it belongs to userID.
// Otherwise it returns ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, userID string, id int64) (Game, error) {
	rec, err := r.owned(ctx, userID, id)
	if err != nil {
		return Game{}, err
	}
	if rec == nil {
		return Game{}, ErrNotFound
	}
	return rec.Unwrap(), nil
}

// Update overwrites the game with the given ID if it belongs to userID.
// Updating a game owned by someone else, or a missing one, does nothing.
func (r *Repository) Update(ctx context.Context, userID string, id int64, game Game) error {
	if err := game.Validate(); err != nil {
		return err
	}
	rec, err := r.owned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNoActiveUser) {
			return err
		}
		return fmt.Errorf("updating game: %w", err)
	}
	if rec == nil {
		r.logger.Debug("update ignored", "user", userID, "id", id)
		return nil
	}
	if err := r.db.ReplaceRecordGame(ctx, id, game.normalized()); err != nil {
		return fmt.Errorf("updating game: %w", err)
	}
	r.logger.Info("game updated", "user", userID, "id", id)
	return nil
}

// DeleteByID removes the game with the given ID if it belongs to userID.
func (r *Repository) DeleteByID(ctx context.Context, userID string, id int64) error {
	rec, err := r.owned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNoActiveUser) {
			return err
		}
		return fmt.Errorf("deleting game: %w", err)
	}
	if rec == nil {
		r.logger.Debug("delete ignored", "user", userID, "id", id)
		return nil
	}
	if err := r.db.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	r.logger.Info("game deleted", "user", userID, "id", id)
	return nil
}

// ClearAll removes every game owned by userID.
func (r *Repository) ClearAll(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoActiveUser
	}
	if !r.available() {
		return nil
	}
	n, err := r.db.DeleteRecordsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("clearing games: %w", err)
	}
	r.logger.Info("games cleared", "user", userID, "count", n)
	return nil
}

// Count returns how many games userID owns.
func (r *Repository) Count(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrNoActiveUser
	}
	if !r.available() {
		return 0, nil
	}
	n, err := r.db.CountRecordsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}

// owned loads record id and returns it only if userID owns it.
func (r *Repository) owned(ctx context.Context, userID string, id int64) (*Record, error) {
	if userID == "" {
		return nil, ErrNoActiveUser
	}
	if !r.available() {
		return nil, nil
	}
	rec, err := r.db.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading game %d: %w", id, err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func unwrapAll(records []*Record) []Game {
	games := make([]Game, len(records))
	for i, rec := range records {
		games[i] = rec.Unwrap()
	}
	return games
}
