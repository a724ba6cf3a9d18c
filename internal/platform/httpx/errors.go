package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-crm/meridian/internal/shared"
)

// Message is the error payload shape: {"message": "..."}.
type Message struct {
	Message string `json:"message"`
}

// RespondError maps domain errors to HTTP statuses inside the envelope.
// Anything unrecognized becomes a generic 500 without leaking internals.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Respond(w, http.StatusNotFound, false, nil)
	case errors.Is(err, shared.ErrTokenExpired):
		Respond(w, http.StatusUnauthorized, false, Message{Message: "Token Expired"})
	case errors.Is(err, shared.ErrTokenInvalid):
		Respond(w, http.StatusUnauthorized, false, Message{Message: "Invalid API token"})
	case errors.Is(err, shared.ErrInvalidCredentials):
		Respond(w, http.StatusUnauthorized, false, Message{Message: "Unauthorized"})
	default:
		Respond(w, http.StatusInternalServerError, false, Message{Message: "Internal server error"})
	}
}

// RespondValidation writes the field → message map with status 400.
func RespondValidation(w http.ResponseWriter, fields map[string]string) {
	Respond(w, http.StatusBadRequest, false, fields)
}
