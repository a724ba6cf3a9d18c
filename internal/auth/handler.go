package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-crm/meridian/internal/platform/httpx"
)

// Handler wires the login endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the unguarded auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

type loginResponse struct {
	AuthToken string `json:"auth_token"`
}

// Login authenticates form-encoded email/password credentials and returns
// the bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Respond(w, http.StatusBadRequest, false, nil)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		httpx.Respond(w, http.StatusUnauthorized, false, httpx.Message{Message: "Wrong user email or password"})
		return
	}

	token, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongEmail):
			httpx.Respond(w, http.StatusUnauthorized, false, httpx.Message{Message: "Wrong user email"})
		case errors.Is(err, ErrWrongPassword):
			httpx.Respond(w, http.StatusUnauthorized, false, httpx.Message{Message: "Wrong user password"})
		default:
			h.logger.Error("login", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}

	httpx.OK(w, loginResponse{AuthToken: "Bearer " + token})
}
