package database

// sqlc/schema.sql is derived from the migrations and the query layer in
// sqlc/ is generated from it. After adding a migration run:
//
//	go generate ./internal/database
//
// CI can verify the derived schema with
// `go run internal/database/tools/generate_schema.go -check`.

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"
