package shelf

import "context"

// Database is the record store: a single table of (record id, user id, game)
// rows plus the mutation history. Implementations must be safe to call
// sequentially from one goroutine; the repository never issues concurrent
// writes.
type Database interface {
	// Record operations

	// InsertRecord stores a new record and returns it with its assigned ID.
	InsertRecord(ctx context.Context, userID string, game Game) (*Record, error)

	// GetRecord returns the record with the given ID, or nil if none exists.
	GetRecord(ctx context.Context, id int64) (*Record, error)

	// ListRecordsByUser returns every record owned by userID, ordered by ID.
	ListRecordsByUser(ctx context.Context, userID string) ([]*Record, error)

	// ListRecordsByUserAndPlatform returns the user's records for one platform, ordered by ID.
	ListRecordsByUserAndPlatform(ctx context.Context, userID string, platform Platform) ([]*Record, error)

	// ReplaceRecordGame overwrites the game payload of an existing record.
	ReplaceRecordGame(ctx context.Context, id int64, game Game) error

	// DeleteRecord removes the record with the given ID.
	DeleteRecord(ctx context.Context, id int64) error

	// DeleteRecordsByUser removes every record owned by userID and returns how many were removed.
	DeleteRecordsByUser(ctx context.Context, userID string) (int64, error)

	// CountRecordsByUser returns the number of records owned by userID.
	CountRecordsByUser(ctx context.Context, userID string) (int64, error)

	// Operation history

	// CreateOperation records the start of a mutating operation.
	CreateOperation(ctx context.Context, userID, operation, parameters string) (*Operation, error)

	// FinishOperation marks an operation as finished with the given status.
	FinishOperation(ctx context.Context, id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(ctx context.Context, limit int) ([]*Operation, error)

	// MaxOperationID returns the highest operation ID, or 0 if none exist.
	MaxOperationID(ctx context.Context) (int64, error)

	// BackupTo writes a consistent copy of the database to destPath.
	BackupTo(destPath string) error

	// Close closes the database connection.
	Close() error
}
