package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gameshelf/internal/shelf"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:", fixedClock{now: testNow})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestSQLiteDatabase_InsertRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		db := newTestDB(t)

		rec, err := db.InsertRecord(ctx, "alen", shelf.Game{
			Title:     "Chrono Trigger",
			Price:     shelf.PriceOf(20),
			Platform:  "DS",
			Condition: shelf.ConditionUsed,
		})
		if err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}

		if rec.ID == 0 {
			t.Error("ID is zero")
		}
		if rec.UserID != "alen" {
			t.Errorf("UserID = %q, want %q", rec.UserID, "alen")
		}
		if rec.Game.Title != "Chrono Trigger" {
			t.Errorf("Title = %q, want %q", rec.Game.Title, "Chrono Trigger")
		}
		if !rec.CreatedAt.Equal(testNow) {
			t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, testNow)
		}
	})

	t.Run("does not store the game id in the payload", func(t *testing.T) {
		db := newTestDB(t)

		rec, err := db.InsertRecord(ctx, "alen", shelf.Game{ID: 999, Title: "Tetris"})
		if err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}

		var payload string
		if err := db.db.QueryRow("SELECT game FROM records WHERE id = ?", rec.ID).Scan(&payload); err != nil {
			t.Fatalf("reading payload: %v", err)
		}
		if want := `{"title":"Tetris","condition":"","platinum":false}`; payload != want {
			t.Errorf("payload = %s, want %s", payload, want)
		}
		if rec.Game.ID != 0 {
			t.Errorf("stored Game.ID = %d, want 0", rec.Game.ID)
		}
	})

	t.Run("copies title and platform into indexed columns", func(t *testing.T) {
		db := newTestDB(t)

		rec, err := db.InsertRecord(ctx, "rafa", shelf.Game{Title: "Halo", Platform: "XBOX"})
		if err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}

		var title, platform string
		err = db.db.QueryRow("SELECT title, platform FROM records WHERE id = ?", rec.ID).Scan(&title, &platform)
		if err != nil {
			t.Fatalf("reading columns: %v", err)
		}
		if title != "Halo" || platform != "XBOX" {
			t.Errorf("columns = (%q, %q), want (Halo, XBOX)", title, platform)
		}
	})
}

func TestSQLiteDatabase_GetRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil when record not found", func(t *testing.T) {
		db := newTestDB(t)

		rec, err := db.GetRecord(ctx, 42)
		if err != nil {
			t.Fatalf("GetRecord() error = %v", err)
		}
		if rec != nil {
			t.Errorf("GetRecord() = %v, want nil", rec)
		}
	})

	t.Run("round trips every game field", func(t *testing.T) {
		db := newTestDB(t)

		want := shelf.Game{
			Title:       "Bloodborne",
			Price:       shelf.PriceOf(19.95),
			Store:       "cex",
			Platform:    "PS4",
			Condition:   shelf.ConditionUsed,
			Platinum:    true,
			Description: "GOTY",
			Image:       "cover.png",
		}
		created, err := db.InsertRecord(ctx, "alberto", want)
		if err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}

		got, err := db.GetRecord(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetRecord() error = %v", err)
		}
		if got == nil {
			t.Fatal("GetRecord() returned nil")
		}
		if got.Game.Title != want.Title || got.Game.Store != want.Store || got.Game.Platform != want.Platform ||
			got.Game.Condition != want.Condition || got.Game.Platinum != want.Platinum ||
			got.Game.Description != want.Description || got.Game.Image != want.Image {
			t.Errorf("GetRecord() game = %+v, want %+v", got.Game, want)
		}
		if got.Game.Price == nil || *got.Game.Price != 19.95 {
			t.Errorf("Price = %v, want 19.95", got.Game.Price)
		}
	})
}

func TestSQLiteDatabase_ListRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	seed := []struct {
		user  string
		title string
		plat  shelf.Platform
	}{
		{"rafa", "Halo", "XBOX"},
		{"rafa", "Forza", "XBOX-SERIES"},
		{"alen", "Chrono Trigger", "DS"},
		{"rafa", "Gears", "XBOX"},
	}
	for _, s := range seed {
		if _, err := db.InsertRecord(ctx, s.user, shelf.Game{Title: s.title, Platform: s.plat}); err != nil {
			t.Fatalf("InsertRecord(%s) error = %v", s.title, err)
		}
	}

	t.Run("by user in insertion order", func(t *testing.T) {
		recs, err := db.ListRecordsByUser(ctx, "rafa")
		if err != nil {
			t.Fatalf("ListRecordsByUser() error = %v", err)
		}
		var titles []string
		for _, r := range recs {
			titles = append(titles, r.Game.Title)
		}
		want := []string{"Halo", "Forza", "Gears"}
		if len(titles) != len(want) {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
		for i := range want {
			if titles[i] != want[i] {
				t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
			}
		}
	})

	t.Run("by user and platform", func(t *testing.T) {
		recs, err := db.ListRecordsByUserAndPlatform(ctx, "rafa", "XBOX")
		if err != nil {
			t.Fatalf("ListRecordsByUserAndPlatform() error = %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("got %d records, want 2", len(recs))
		}
		for _, r := range recs {
			if r.UserID != "rafa" || r.Game.Platform != "XBOX" {
				t.Errorf("unexpected record %+v", r)
			}
		}
	})

	t.Run("unknown user is empty", func(t *testing.T) {
		recs, err := db.ListRecordsByUser(ctx, "andres")
		if err != nil {
			t.Fatalf("ListRecordsByUser() error = %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("got %d records, want 0", len(recs))
		}
	})
}

func TestSQLiteDatabase_ReplaceRecordGame(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	rec, err := db.InsertRecord(ctx, "alen", shelf.Game{Title: "Old", Platform: "PS1"})
	if err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	if err := db.ReplaceRecordGame(ctx, rec.ID, shelf.Game{Title: "New", Platform: "PS2"}); err != nil {
		t.Fatalf("ReplaceRecordGame() error = %v", err)
	}

	got, err := db.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if got.Game.Title != "New" || got.Game.Platform != "PS2" {
		t.Errorf("game = %+v, want New/PS2", got.Game)
	}
	if got.UserID != "alen" {
		t.Errorf("UserID = %q, want alen", got.UserID)
	}

	byPlatform, err := db.ListRecordsByUserAndPlatform(ctx, "alen", "PS2")
	if err != nil {
		t.Fatalf("ListRecordsByUserAndPlatform() error = %v", err)
	}
	if len(byPlatform) != 1 {
		t.Errorf("platform column not updated: got %d records for PS2", len(byPlatform))
	}
}

func TestSQLiteDatabase_DeleteRecords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	a, _ := db.InsertRecord(ctx, "alen", shelf.Game{Title: "A"})
	db.InsertRecord(ctx, "alen", shelf.Game{Title: "B"})
	db.InsertRecord(ctx, "rafa", shelf.Game{Title: "C"})

	if err := db.DeleteRecord(ctx, a.ID); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}
	if got, _ := db.GetRecord(ctx, a.ID); got != nil {
		t.Error("record still present after DeleteRecord()")
	}

	n, err := db.DeleteRecordsByUser(ctx, "alen")
	if err != nil {
		t.Fatalf("DeleteRecordsByUser() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteRecordsByUser() = %d, want 1", n)
	}

	count, err := db.CountRecordsByUser(ctx, "rafa")
	if err != nil {
		t.Fatalf("CountRecordsByUser() error = %v", err)
	}
	if count != 1 {
		t.Errorf("rafa count = %d, want 1", count)
	}
}

func TestSQLiteDatabase_Operations(t *testing.T) {
	ctx := context.Background()

	t.Run("max id is zero when empty", func(t *testing.T) {
		db := newTestDB(t)

		id, err := db.MaxOperationID(ctx)
		if err != nil {
			t.Fatalf("MaxOperationID() error = %v", err)
		}
		if id != 0 {
			t.Errorf("MaxOperationID() = %d, want 0", id)
		}
	})

	t.Run("create, finish and list newest first", func(t *testing.T) {
		db := newTestDB(t)

		first, err := db.CreateOperation(ctx, "alen", "AddGame", "Chrono Trigger")
		if err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}
		if first.Status != "running" {
			t.Errorf("Status = %q, want running", first.Status)
		}
		second, _ := db.CreateOperation(ctx, "alen", "DeleteGame", "1")

		if err := db.FinishOperation(ctx, first.ID, "success"); err != nil {
			t.Fatalf("FinishOperation() error = %v", err)
		}

		ops, err := db.ListOperations(ctx, 10)
		if err != nil {
			t.Fatalf("ListOperations() error = %v", err)
		}
		if len(ops) != 2 {
			t.Fatalf("got %d ops, want 2", len(ops))
		}
		if ops[0].ID != second.ID {
			t.Errorf("ops[0].ID = %d, want newest %d", ops[0].ID, second.ID)
		}
		if ops[1].Status != "success" || ops[1].FinishedAt == nil {
			t.Errorf("finished op = %+v, want success with FinishedAt", ops[1])
		}
		if ops[0].FinishedAt != nil {
			t.Error("unfinished op has FinishedAt")
		}

		max, err := db.MaxOperationID(ctx)
		if err != nil {
			t.Fatalf("MaxOperationID() error = %v", err)
		}
		if max != second.ID {
			t.Errorf("MaxOperationID() = %d, want %d", max, second.ID)
		}
	})
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	if _, err := db.InsertRecord(ctx, "alen", shelf.Game{Title: "Backed up"}); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "copy.db")
	if err := db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	restored, err := NewSQLiteDatabase(dest, nil)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer restored.Close()

	recs, err := restored.ListRecordsByUser(ctx, "alen")
	if err != nil {
		t.Fatalf("ListRecordsByUser() on backup error = %v", err)
	}
	if len(recs) != 1 || recs[0].Game.Title != "Backed up" {
		t.Errorf("backup records = %+v", recs)
	}
}
