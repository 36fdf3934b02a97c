package shelf

import "errors"

var (
	// ErrNotFound is returned when a game does not exist or is owned by
	// another user. The two cases are not distinguished.
	ErrNotFound = errors.New("game not found")

	// ErrNoActiveUser is returned when an operation needs a selected profile
	// and none is set. Reaching it means a caller skipped the profile check.
	ErrNoActiveUser = errors.New("no user selected")

	// ErrUnknownUser is returned when selecting a profile that does not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidGame wraps every game validation failure.
	ErrInvalidGame = errors.New("invalid game")

	// ErrInvalidImport is returned for import payloads that are not a JSON
	// array of records or games.
	ErrInvalidImport = errors.New("invalid import file")

	// ErrNothingToExport is returned when exporting an empty collection.
	ErrNothingToExport = errors.New("no games to export")

	// ErrInvalidFilter is returned when a where expression does not compile.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ErrNoCover is returned when a game has no cover stored in the vault.
var ErrNoCover = errors.New("game has no stored cover")
