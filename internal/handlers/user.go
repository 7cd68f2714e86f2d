package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dsaps/internal/config"
	"dsaps/internal/middleware"
	"dsaps/internal/service"
)

// APIVersion reported by /status.
const APIVersion = "6"

// UserHandler — login/logout/status.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

// StatusResponse — ответ /status.
type StatusResponse struct {
	Okay          bool   `json:"okay"`
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	FullName      string `json:"fullname,omitempty"`
	APIVersion    string `json:"apiVersion"`
}

// Login принимает email/password из query или формы и выдаёт JSESSIONID.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}
	user, err := h.UserService.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Logger.Infow("Login failed", "email", email)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		h.Logger.Errorw("Login: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: cannot issue session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("User logged in", "user_id", user.ID)
	w.WriteHeader(http.StatusOK)
}

// Logout закрывает сессию.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w, r, h.Config.AuthSecret)
	w.WriteHeader(http.StatusOK)
}

// Status сообщает, аутентифицирована ли сессия запроса.
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Okay: true, APIVersion: APIVersion}
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		if u, err := h.UserService.Get(r.Context(), id); err == nil {
			resp.Authenticated = true
			resp.Email = u.Login
			resp.FullName = u.FullName
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
