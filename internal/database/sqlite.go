package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gameshelf/internal/database/migrations"
	"gameshelf/internal/database/sqlc"
	"gameshelf/internal/shelf"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the shelf.Database interface using SQLite.
//
// Each record row keeps the game as a JSON document in the game column.
// Title and platform are copied into their own indexed columns so that
// user, title and platform lookups do not need to parse the document.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
	clock   shelf.Clock
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
// A nil clock uses the real time.
func NewSQLiteDatabase(path string, clock shelf.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
		clock:   clockOrReal(clock),
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock shelf.Clock) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
		clock:   clockOrReal(clock),
	}
}

func clockOrReal(clock shelf.Clock) shelf.Clock {
	if clock == nil {
		return shelf.RealClock{}
	}
	return clock
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, so the pool
	// must never open a second one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Record operations

func (s *SQLiteDatabase) InsertRecord(ctx context.Context, userID string, game shelf.Game) (*shelf.Record, error) {
	payload, err := encodeGame(game)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	row, err := s.queries.InsertRecord(ctx, sqlc.InsertRecordParams{
		UserID:    userID,
		Title:     game.Title,
		Platform:  string(game.Platform),
		Game:      payload,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}
	return toRecord(row)
}

func (s *SQLiteDatabase) GetRecord(ctx context.Context, id int64) (*shelf.Record, error) {
	row, err := s.queries.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding record by id: %w", err)
	}
	return toRecord(row)
}

func (s *SQLiteDatabase) ListRecordsByUser(ctx context.Context, userID string) ([]*shelf.Record, error) {
	rows, err := s.queries.GetRecordsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing records by user: %w", err)
	}
	return toRecords(rows)
}

func (s *SQLiteDatabase) ListRecordsByUserAndPlatform(ctx context.Context, userID string, platform shelf.Platform) ([]*shelf.Record, error) {
	rows, err := s.queries.GetRecordsByUserAndPlatform(ctx, sqlc.GetRecordsByUserAndPlatformParams{
		UserID:   userID,
		Platform: string(platform),
	})
	if err != nil {
		return nil, fmt.Errorf("listing records by platform: %w", err)
	}
	return toRecords(rows)
}

func (s *SQLiteDatabase) ReplaceRecordGame(ctx context.Context, id int64, game shelf.Game) error {
	payload, err := encodeGame(game)
	if err != nil {
		return err
	}

	err = s.queries.UpdateRecordGame(ctx, sqlc.UpdateRecordGameParams{
		Title:     game.Title,
		Platform:  string(game.Platform),
		Game:      payload,
		UpdatedAt: s.clock.Now(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.queries.DeleteRecordByID(ctx, id); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteRecordsByUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.queries.DeleteRecordsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting records by user: %w", err)
	}
	return n, nil
}

func (s *SQLiteDatabase) CountRecordsByUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.queries.CountRecordsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting records by user: %w", err)
	}
	return n, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, userID, operation, parameters string) (*shelf.Operation, error) {
	op, err := s.queries.InsertOperation(ctx, sqlc.InsertOperationParams{
		UserID:     userID,
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return toOperation(op), nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string) error {
	err := s.queries.UpdateOperationFinished(ctx, sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: s.clock.Now(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*shelf.Operation, error) {
	ops, err := s.queries.GetOperations(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	result := make([]*shelf.Operation, len(ops))
	for i := range ops {
		result[i] = toOperation(ops[i])
	}
	return result, nil
}

func (s *SQLiteDatabase) MaxOperationID(ctx context.Context) (int64, error) {
	id, err := s.queries.GetMaxOperationID(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting max operation ID: %w", err)
	}
	return id, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Migrate brings the schema to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
// destPath must not exist yet.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func encodeGame(game shelf.Game) (string, error) {
	game.ID = 0 // the record id is the only identifier
	data, err := json.Marshal(game)
	if err != nil {
		return "", fmt.Errorf("encoding game: %w", err)
	}
	return string(data), nil
}

func toRecord(row sqlc.Record) (*shelf.Record, error) {
	var game shelf.Game
	if err := json.Unmarshal([]byte(row.Game), &game); err != nil {
		return nil, fmt.Errorf("decoding game of record %d: %w", row.ID, err)
	}
	game.ID = 0
	return &shelf.Record{
		ID:        row.ID,
		UserID:    row.UserID,
		Game:      game,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func toRecords(rows []sqlc.Record) ([]*shelf.Record, error) {
	result := make([]*shelf.Record, len(rows))
	for i := range rows {
		rec, err := toRecord(rows[i])
		if err != nil {
			return nil, err
		}
		result[i] = rec
	}
	return result, nil
}

func toOperation(op sqlc.Operation) *shelf.Operation {
	out := &shelf.Operation{
		ID:         op.ID,
		UserID:     op.UserID,
		Operation:  op.Operation,
		Parameters: op.Parameters,
		Status:     op.Status,
		StartedAt:  op.StartedAt,
	}
	if op.FinishedAt.Valid {
		t := op.FinishedAt.Time
		out.FinishedAt = &t
	}
	return out
}

// Compile-time check that SQLiteDatabase implements shelf.Database interface
var _ shelf.Database = (*SQLiteDatabase)(nil)
