package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gameshelf/internal/i18n"
	"gameshelf/internal/shelf"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// maxImportBody bounds uploaded import files. Encrypted and armored files
// are larger than the JSON they carry.
var maxImportBody int64 = 2 * shelf.MaxImportSize

type handlers struct {
	svc Service
	tr  *i18n.Translator
	log shelf.Logger
}

type catalogItem struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type userItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Image  string `json:"image"`
	Active bool   `json:"active"`
}

type sessionBody struct {
	UserID string `json:"userId"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses.
func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shelf.ErrNoActiveUser):
		status = http.StatusPreconditionFailed
	case errors.Is(err, shelf.ErrNotFound), errors.Is(err, shelf.ErrNoCover), errors.Is(err, shelf.ErrNothingToExport):
		status = http.StatusNotFound
	case errors.Is(err, shelf.ErrInvalidGame), errors.Is(err, shelf.ErrInvalidImport),
		errors.Is(err, shelf.ErrUnknownUser), errors.Is(err, shelf.ErrInvalidFilter):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func (h *handlers) translate(entries []shelf.CatalogEntry) []catalogItem {
	out := make([]catalogItem, len(entries))
	for i, e := range entries {
		out[i] = catalogItem{Code: e.Code, Label: h.tr.T(e.LabelKey)}
	}
	return out
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	active, _ := h.svc.CurrentUser()
	users := shelf.Users()
	out := make([]userItem, len(users))
	for i, u := range users {
		out[i] = userItem{ID: u.ID, Label: h.tr.T(u.LabelKey), Image: u.Image, Active: u.ID == active}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) listPlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.translate(shelf.Platforms()))
}

func (h *handlers) listStores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.translate(shelf.Stores()))
}

func (h *handlers) listConditions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.translate(shelf.Conditions()))
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.svc.CurrentUser()
	if !ok {
		h.writeError(w, shelf.ErrNoActiveUser)
		return
	}
	writeJSON(w, http.StatusOK, sessionBody{UserID: userID})
}

func (h *handlers) putSession(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if err := decodeBody(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if err := h.svc.SelectUser(body.UserID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearUser(); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	q := shelf.Query{
		Search:   v.Get("search"),
		Platform: shelf.Platform(v.Get("platform")),
		Where:    v.Get("where"),
	}
	var err error
	if q.Page, err = intParam(v.Get("page")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "page: " + err.Error()})
		return
	}
	if q.PageSize, err = intParam(v.Get("pageSize")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "pageSize: " + err.Error()})
		return
	}

	page, err := h.svc.ListGames(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	game, err := h.svc.GetGame(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *handlers) addGame(w http.ResponseWriter, r *http.Request) {
	var game shelf.Game
	if err := decodeBody(w, r, &game); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", shelf.ErrInvalidGame, err))
		return
	}
	id, err := h.svc.AddGame(r.Context(), game)
	if err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.svc.GetGame(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) updateGame(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	var game shelf.Game
	if err := decodeBody(w, r, &game); err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", shelf.ErrInvalidGame, err))
		return
	}
	if err := h.svc.UpdateGame(r.Context(), id, game); err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.svc.GetGame(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGame(r.Context(), gameID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearGames(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearGames(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported int      `json:"imported"`
	Users    []string `json:"users"`
	Error    string   `json:"error,omitempty"`
}

func (h *handlers) importLibrary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: file is larger than %d bytes", shelf.ErrInvalidImport, tooLarge.Limit)
		}
		h.writeError(w, err)
		return
	}
	res, err := h.svc.Import(r.Context(), bytes.NewReader(body), "api")
	if err != nil && res.Imported == 0 {
		h.writeError(w, err)
		return
	}
	resp := importResponse{Imported: res.Imported, Users: res.Users}
	if resp.Users == nil {
		resp.Users = []string{}
	}
	if err != nil {
		// Partial import: earlier elements stay written.
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) exportLibrary(w http.ResponseWriter, r *http.Request) {
	encrypt := r.URL.Query().Get("encrypt") == "true"

	name := shelf.DefaultExportName
	contentType := "application/json"
	if encrypt {
		name += ".age"
		contentType = "application/octet-stream"
	}

	// Buffer so that an error can still be reported with a proper status.
	var buf bytes.Buffer
	if _, err := h.svc.Export(r.Context(), &buf, encrypt); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func gameID(r *http.Request) int64 {
	// The route only matches digits.
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return n, nil
}
