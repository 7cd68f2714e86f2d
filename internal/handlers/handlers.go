package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dsaps/internal/config"
	"dsaps/internal/middleware"
	"dsaps/internal/service"
)

// APIPrefix — корень REST API, как в DSpace 6.
const APIPrefix = "/rest"

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	archiveService *service.ArchiveService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(config.AuthSecret))

	userHandler := NewUserHandler(userService, logger, config)
	archiveHandler := NewArchiveHandler(archiveService, logger, config)

	r.Route(APIPrefix, func(r chi.Router) {
		// Session routes
		r.Post("/login", userHandler.Login)
		r.Post("/logout", userHandler.Logout)
		r.Get("/status", userHandler.Status)

		// Read routes are public
		r.Get("/handle/*", archiveHandler.Handle)
		r.Get("/filtered-items", archiveHandler.FilteredItems)
		r.Get("/communities/{id}", archiveHandler.GetCommunity)
		r.Get("/collections/{id}", archiveHandler.GetCollection)
		r.Get("/items/{id}", archiveHandler.GetItem)
		r.Get("/items/{id}/metadata", archiveHandler.GetItemMetadata)

		// Write routes need a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/communities", archiveHandler.PostCommunity)
			r.Post("/communities/{id}/collections", archiveHandler.PostCollection)
			r.Post("/collections/{id}/items", archiveHandler.PostItem)
			r.Post("/items/{id}/bitstreams", archiveHandler.PostBitstream)
		})
	})

	return &Handler{Router: r}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError переводит ошибки сервиса в HTTP-статусы.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		logger.Errorw(op+": service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
