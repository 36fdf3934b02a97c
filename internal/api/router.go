package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"gameshelf/internal/i18n"
	"gameshelf/internal/shelf"
)

// Service is the application surface the API exposes.
type Service interface {
	CurrentUser() (string, bool)
	SelectUser(userID string) error
	ClearUser() error

	ListGames(ctx context.Context, q shelf.Query) (shelf.Page, error)
	GetGame(ctx context.Context, id int64) (shelf.Game, error)
	AddGame(ctx context.Context, game shelf.Game) (int64, error)
	UpdateGame(ctx context.Context, id int64, game shelf.Game) error
	DeleteGame(ctx context.Context, id int64) error
	ClearGames(ctx context.Context) error

	Import(ctx context.Context, r io.Reader, source string) (shelf.ImportResult, error)
	Export(ctx context.Context, w io.Writer, encrypt bool) (int, error)
}

// NewRouter returns the loopback JSON API over svc. Labels in catalog
// responses are translated with tr.
func NewRouter(svc Service, tr *i18n.Translator, logger shelf.Logger) *mux.Router {
	if logger == nil {
		logger = shelf.NewNopLogger()
	}
	h := &handlers{svc: svc, tr: tr, log: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", h.listUsers).Methods("GET")
	api.HandleFunc("/platforms", h.listPlatforms).Methods("GET")
	api.HandleFunc("/stores", h.listStores).Methods("GET")
	api.HandleFunc("/conditions", h.listConditions).Methods("GET")

	api.HandleFunc("/session", h.getSession).Methods("GET")
	api.HandleFunc("/session", h.putSession).Methods("PUT")
	api.HandleFunc("/session", h.deleteSession).Methods("DELETE")

	api.HandleFunc("/games", h.listGames).Methods("GET")
	api.HandleFunc("/games", h.addGame).Methods("POST")
	api.HandleFunc("/games", h.clearGames).Methods("DELETE")
	api.HandleFunc("/games/{id:[0-9]+}", h.getGame).Methods("GET")
	api.HandleFunc("/games/{id:[0-9]+}", h.updateGame).Methods("PUT")
	api.HandleFunc("/games/{id:[0-9]+}", h.deleteGame).Methods("DELETE")

	api.HandleFunc("/import", h.importLibrary).Methods("POST")
	api.HandleFunc("/export", h.exportLibrary).Methods("GET")

	r.Use(h.logRequests)
	return r
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
