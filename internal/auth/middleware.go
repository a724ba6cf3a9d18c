package auth

import (
	"net/http"
	"strings"

	"github.com/meridian-crm/meridian/internal/platform/httpx"
	"github.com/meridian-crm/meridian/internal/shared"
)

const bearerPrefix = "Bearer "

// Guard authenticates every request by bearer token. Authorization is
// existence-only: any resolved user may call any endpoint.
func (h *Handler) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			httpx.RespondError(w, shared.ErrTokenInvalid)
			return
		}
		token := header[len(bearerPrefix):]

		userID, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}

		ctx := shared.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
