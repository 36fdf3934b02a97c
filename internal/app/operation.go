package app

import (
	"context"
	"fmt"
	"strings"

	"gameshelf/internal/shelf"
)

// Operation statuses stored in the history table.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// params renders key/value pairs as the parameters column of an operation,
// e.g. "id=3 title=Halo".
func params(kv ...any) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

// track records a mutating operation in the history and runs fn.
// The operation is finished with StatusSuccess or StatusError depending on
// fn's result. Without a record store fn runs untracked.
func (a *App) track(ctx context.Context, name, userID, parameters string, fn func() error) error {
	if a.store == nil {
		return fn()
	}

	op, err := a.store.CreateOperation(ctx, userID, name, parameters)
	if err != nil {
		return fmt.Errorf("recording operation: %w", err)
	}
	a.dirty.Store(true)

	runErr := fn()

	status := StatusSuccess
	if runErr != nil {
		status = StatusError
	}
	if err := a.store.FinishOperation(ctx, op.ID, status); err != nil {
		a.log.Error("finishing operation failed", "id", op.ID, "error", err)
		if runErr == nil {
			return fmt.Errorf("finishing operation: %w", err)
		}
	}
	return runErr
}

// History returns the most recent operations, newest first.
func (a *App) History(ctx context.Context, limit int) ([]*shelf.Operation, error) {
	if a.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return a.store.ListOperations(ctx, limit)
}
