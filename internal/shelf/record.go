package shelf

import "time"

// Record is the storage unit: a game owned by a user.
// The record ID is the only identifier of a game.
type Record struct {
	ID        int64
	UserID    string
	Game      Game
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unwrap returns the record's game with its ID populated from the record.
func (r *Record) Unwrap() Game {
	g := r.Game
	g.ID = r.ID
	return g
}

// Operation is an entry of the mutation history.
type Operation struct {
	ID         int64
	UserID     string
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
