package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"gameshelf/internal/app"
	"gameshelf/internal/config"
	"gameshelf/internal/shelf"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	cfg := config.NewConfig("api-test", t.TempDir())
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	cfg.Vaults = []config.VaultConfig{{Type: "memory", Name: "mem"}}
	cfg.Encryption.Type = "test"

	a, err := app.NewApp(context.Background(), cfg, app.Options{Stderr: io.Discard})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return NewRouter(a, a.Translator(), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func login(t *testing.T, h http.Handler, userID string) {
	t.Helper()
	rec := do(t, h, "PUT", "/api/session", fmt.Sprintf(`{"userId":%q}`, userID))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/session = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, "GET", "/health", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "OK" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestSession(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{"GET", "/api/session", "", http.StatusPreconditionFailed},
		{"GET", "/api/games", "", http.StatusPreconditionFailed},
		{"PUT", "/api/session", `{"userId":"nobody"}`, http.StatusBadRequest},
		{"PUT", "/api/session", `not json`, http.StatusBadRequest},
		{"PUT", "/api/session", `{"userId":"alen"}`, http.StatusOK},
		{"GET", "/api/session", "", http.StatusOK},
		{"GET", "/api/games", "", http.StatusOK},
		{"DELETE", "/api/session", "", http.StatusNoContent},
		{"GET", "/api/games", "", http.StatusPreconditionFailed},
	}
	for _, tt := range tests {
		rec := do(t, h, tt.method, tt.path, tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s %s %s = %d, want %d (%s)", tt.method, tt.path, tt.body, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestGameCRUD(t *testing.T) {
	h := newTestRouter(t)
	login(t, h, "rafa")

	rec := do(t, h, "POST", "/api/games", `{"title":"Halo Infinite","price":24.99,"store":"ms","platform":"XBOX-SERIES","condition":"New"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/games = %d %s", rec.Code, rec.Body.String())
	}
	created := decode[shelf.Game](t, rec)
	if created.ID == 0 || created.Title != "Halo Infinite" {
		t.Fatalf("created = %+v", created)
	}
	path := fmt.Sprintf("/api/games/%d", created.ID)

	rec = do(t, h, "PUT", path, `{"title":"Halo Infinite","platform":"XBOX-SERIES","condition":"New","platinum":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT %s = %d %s", path, rec.Code, rec.Body.String())
	}
	if got := decode[shelf.Game](t, rec); !got.Platinum || got.ID != created.ID {
		t.Errorf("updated = %+v, want platinum with same id", got)
	}

	rec = do(t, h, "GET", "/api/games?search=halo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/games = %d", rec.Code)
	}
	if page := decode[shelf.Page](t, rec); page.TotalItems != 1 || page.PageSize != config.DefaultPageSize {
		t.Errorf("page = %+v, want 1 item with default page size", page)
	}

	// Another profile gets 404 for the game.
	login(t, h, "alen")
	if rec := do(t, h, "GET", path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET %s as alen = %d, want 404", path, rec.Code)
	}
	if rec := do(t, h, "PUT", path, `{"title":"Mine now"}`); rec.Code != http.StatusNotFound {
		t.Errorf("PUT %s as alen = %d, want 404", path, rec.Code)
	}

	login(t, h, "rafa")
	if rec := do(t, h, "DELETE", path, ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE %s = %d, want 204", path, rec.Code)
	}
	if rec := do(t, h, "GET", path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET %s after delete = %d, want 404", path, rec.Code)
	}
}

func TestBadRequests(t *testing.T) {
	h := newTestRouter(t)
	login(t, h, "alberto")

	tests := []struct {
		name, method, path, body string
	}{
		{"missing title", "POST", "/api/games", `{"price":3}`},
		{"negative price", "POST", "/api/games", `{"title":"x","price":-1}`},
		{"unknown platform", "POST", "/api/games", `{"title":"x","platform":"ATARI"}`},
		{"malformed body", "POST", "/api/games", `{`},
		{"bad page", "GET", "/api/games?page=x", ""},
		{"negative page size", "GET", "/api/games?pageSize=-2", ""},
		{"bad where", "GET", "/api/games?where=price%20%2B%201", ""},
		{"import not an array", "POST", "/api/import", `{"title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s %s = %d, want 400 (%s)", tt.method, tt.path, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCatalogs(t *testing.T) {
	h := newTestRouter(t)
	login(t, h, "andres")

	rec := do(t, h, "GET", "/api/platforms", "")
	platforms := decode[[]catalogItem](t, rec)
	if len(platforms) != len(shelf.Platforms()) || platforms[0] != (catalogItem{Code: "PS5", Label: "PlayStation 5"}) {
		t.Errorf("platforms = %+v", platforms)
	}

	rec = do(t, h, "GET", "/api/users", "")
	users := decode[[]userItem](t, rec)
	if len(users) != 4 {
		t.Fatalf("users = %+v, want 4", users)
	}
	for _, u := range users {
		if u.Active != (u.ID == "andres") {
			t.Errorf("user %s active = %v", u.ID, u.Active)
		}
		if u.ID == "andres" && u.Label != "Andrés" {
			t.Errorf("andres label = %q", u.Label)
		}
	}

	for _, path := range []string{"/api/stores", "/api/conditions"} {
		if rec := do(t, h, "GET", path, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
}

func TestImportExport(t *testing.T) {
	h := newTestRouter(t)
	login(t, h, "alen")

	if rec := do(t, h, "GET", "/api/export", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET /api/export on empty collection = %d, want 404", rec.Code)
	}

	body := `[{"title":"Tetris","platform":"GBC"},{"userId":"rafa","game":{"title":"Gears 5"}}]`
	rec := do(t, h, "POST", "/api/import", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/import = %d %s", rec.Code, rec.Body.String())
	}
	res := decode[importResponse](t, rec)
	if res.Imported != 2 || strings.Join(res.Users, ",") != "alen,rafa" {
		t.Errorf("import = %+v", res)
	}

	rec = do(t, h, "GET", "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/export = %d %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, shelf.DefaultExportName) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	records := decode[[]shelf.ExportRecord](t, rec)
	if len(records) != 1 || records[0].UserID != "alen" || records[0].Game.Title != "Tetris" {
		t.Errorf("export = %+v, want alen's Tetris only", records)
	}

	// A bad element stops the import; earlier ones stay.
	rec = do(t, h, "POST", "/api/import", `[{"title":"Pokémon Red"},{"title":""}]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("partial import = %d, want 400", rec.Code)
	}
	if res := decode[importResponse](t, rec); res.Imported != 1 || res.Error == "" {
		t.Errorf("partial import = %+v", res)
	}

	if rec := do(t, h, "DELETE", "/api/games", ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE /api/games = %d", rec.Code)
	}
	page := decode[shelf.Page](t, do(t, h, "GET", "/api/games", ""))
	if page.TotalItems != 0 {
		t.Errorf("games after clear = %d", page.TotalItems)
	}
}

func TestCheckLoopback(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:8765", false},
		{"localhost:80", false},
		{"[::1]:9000", false},
		{"0.0.0.0:8765", true},
		{"192.168.1.10:8765", true},
		{":8765", true},
		{"no-port", true},
	}
	for _, tt := range tests {
		if err := checkLoopback(tt.addr); (err != nil) != tt.wantErr {
			t.Errorf("checkLoopback(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
		}
	}
}

func TestImportTooLarge(t *testing.T) {
	old := maxImportBody
	maxImportBody = 64
	t.Cleanup(func() { maxImportBody = old })

	h := newTestRouter(t)
	login(t, h, "alen")

	body := `[{"title":"Tetris","description":"` + strings.Repeat("a", 100) + `"}]`
	rec := do(t, h, "POST", "/api/import", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST /api/import = %d %s, want 400", rec.Code, rec.Body.String())
	}
	if msg := decode[errorBody](t, rec).Error; !strings.Contains(msg, "larger than 64 bytes") {
		t.Errorf("error = %q", msg)
	}
	page := decode[shelf.Page](t, do(t, h, "GET", "/api/games", ""))
	if page.TotalItems != 0 {
		t.Errorf("TotalItems = %d, want 0", page.TotalItems)
	}
}
