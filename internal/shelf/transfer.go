package shelf

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"
)

// DefaultExportName is the file name suggested for exports.
const DefaultExportName = "my-game-library.json"

// MaxImportSize bounds how much of an import file is read into memory.
const MaxImportSize = 32 << 20

//go:embed seed/games.json
var seedLibrary []byte

// payloadSchema only checks the outer shape so that a bad element further
// down the file does not prevent earlier elements from being imported.
const payloadSchema = `{
  "type": "array",
  "items": {"type": "object"}
}`

const entrySchema = `{
  "definitions": {
    "game": {
      "type": "object",
      "required": ["title"],
      "properties": {
        "id":          {"type": ["integer", "null"]},
        "title":       {"type": "string", "minLength": 1},
        "price":       {"type": ["number", "null"], "minimum": 0},
        "store":       {"type": ["string", "null"]},
        "platform":    {"type": ["string", "null"]},
        "condition":   {"type": ["string", "null"]},
        "platinum":    {"type": ["boolean", "null"]},
        "description": {"type": ["string", "null"]},
        "image":       {"type": ["string", "null"]}
      }
    }
  },
  "anyOf": [
    {
      "type": "object",
      "required": ["game"],
      "properties": {
        "userId": {"type": ["string", "null"]},
        "game":   {"$ref": "#/definitions/game"}
      }
    },
    {"$ref": "#/definitions/game"}
  ]
}`

var (
	payloadValidator = mustSchema(payloadSchema)
	entryValidator   = mustSchema(entrySchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return s
}

// ExportRecord is one element of an export file.
type ExportRecord struct {
	UserID string `json:"userId"`
	Game   Game   `json:"game"`
}

// importEntry is one decoded element of an import file. UserID is empty for
// bare games.
type importEntry struct {
	UserID *string `json:"userId"`
	Game   *Game   `json:"game"`
}

// ImportResult reports how far an import got.
type ImportResult struct {
	Imported int
	// Users lists the owners that received games, in first-seen order.
	Users []string
}

// Import reads a JSON array of {userId, game} records or bare games from r
// and adds every element through repo. Bare games, and records without a
// userId, go to activeUser.
//
// Elements are written one by one. If an element is invalid the import stops
// there and the elements before it stay imported; the returned result counts
// them.
func Import(ctx context.Context, repo *Repository, activeUser string, r io.Reader) (ImportResult, error) {
	var result ImportResult
	if activeUser == "" {
		return result, ErrNoActiveUser
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return result, fmt.Errorf("reading import file: %w", err)
	}
	if len(data) > MaxImportSize {
		return result, fmt.Errorf("%w: file is larger than %d bytes", ErrInvalidImport, MaxImportSize)
	}

	var elements []json.RawMessage
	if err := validate(payloadValidator, data); err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &elements); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	seen := make(map[string]bool)
	for i, raw := range elements {
		if err := validate(entryValidator, raw); err != nil {
			return result, fmt.Errorf("element %d: %w", i, err)
		}
		userID, game, err := decodeEntry(raw, activeUser)
		if err != nil {
			return result, fmt.Errorf("element %d: %w", i, err)
		}
		if _, ok := LookupUser(userID); !ok {
			return result, fmt.Errorf("element %d: %w: %q", i, ErrUnknownUser, userID)
		}
		if _, err := repo.Add(ctx, userID, game); err != nil {
			return result, fmt.Errorf("element %d: %w", i, err)
		}
		result.Imported++
		if !seen[userID] {
			seen[userID] = true
			result.Users = append(result.Users, userID)
		}
	}
	return result, nil
}

// ImportSeed imports the built-in starter library.
func ImportSeed(ctx context.Context, repo *Repository, activeUser string) (ImportResult, error) {
	return Import(ctx, repo, activeUser, bytes.NewReader(seedLibrary))
}

func decodeEntry(raw json.RawMessage, activeUser string) (string, Game, error) {
	var entry importEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", Game{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if entry.Game != nil {
		userID := activeUser
		if entry.UserID != nil && *entry.UserID != "" {
			userID = *entry.UserID
		}
		return userID, *entry.Game, nil
	}

	var game Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return "", Game{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return activeUser, game, nil
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if !res.Valid() {
		var msg string
		for i, e := range res.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidImport, msg)
	}
	return nil
}

// Export writes the full collection of userID to w as an indented JSON array
// of {userId, game} records and returns how many were written.
func Export(ctx context.Context, repo *Repository, userID string, w io.Writer) (int, error) {
	games, err := repo.ListAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(games) == 0 {
		return 0, ErrNothingToExport
	}

	records := make([]ExportRecord, len(games))
	for i, g := range games {
		g.ID = 0
		records[i] = ExportRecord{UserID: userID, Game: g}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("encoding export: %w", err)
	}
	return len(records), nil
}
