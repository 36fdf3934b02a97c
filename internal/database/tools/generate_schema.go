// Command generate_schema writes internal/database/sqlc/schema.sql from the
// migration files. With -check it only reports whether the file is stale.
package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gameshelf/internal/database"
	"gameshelf/internal/database/migrations"
)

const header = `-- Generated from internal/database/migrations/files/*.sql.
-- Do not edit. Run 'go generate ./internal/database' after adding a migration.

`

func main() {
	check := flag.Bool("check", false, "exit 1 if schema.sql is out of date instead of writing it")
	flag.Parse()

	outPath := filepath.Join("internal", "database", "sqlc", "schema.sql")

	schema, err := migratedSchema()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *check {
		current, err := os.ReadFile(outPath)
		if err != nil || !bytes.Equal(current, []byte(schema)) {
			fmt.Fprintf(os.Stderr, "%s is out of date: run go generate ./internal/database\n", outPath)
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(outPath, []byte(schema), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", outPath)
}

// migratedSchema runs every migration on an empty database and returns the
// resulting CREATE statements, tables first, without the migrator's own table.
func migratedSchema() (string, error) {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return "", err
	}

	rows, err := db.Query(`
		SELECT sql FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, name`)
	if err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var stmt sql.NullString
		if err := rows.Scan(&stmt); err != nil {
			return "", err
		}
		stmts = append(stmts, stmt.String+";")
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return header + strings.Join(stmts, "\n\n") + "\n", nil
}
