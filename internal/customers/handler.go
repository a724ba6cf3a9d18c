package customers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-crm/meridian/internal/activity"
	"github.com/meridian-crm/meridian/internal/platform/httpx"
	"github.com/meridian-crm/meridian/internal/shared"
)

// Handler wires the customer HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	activity activity.Logger
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, act activity.Logger) *Handler {
	if act == nil {
		act = activity.Nop{}
	}
	return &Handler{logger: logger, service: service, activity: act}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if len(list) == 0 {
		httpx.NoContent(w)
		return
	}
	h.activity.Info(r.Context(), "/customers", map[string]any{"count": len(list)})
	httpx.OK(w, NewViews(list))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Respond(w, http.StatusBadRequest, false, nil)
		return
	}
	form := FormFromRequest(r)
	if err := shared.Validator.Struct(form); err != nil {
		httpx.RespondValidation(w, shared.ValidationMessages(err))
		return
	}

	customer, err := h.service.Create(r.Context(), form)
	if err != nil {
		h.logger.Error("create customer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.activity.Info(r.Context(), "customer created", map[string]any{"id": customer.ID, "uuid": customer.UUID})
	httpx.OK(w, NewView(*customer))
}

func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, NewView(*customer))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.service.Get(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.Respond(w, http.StatusBadRequest, false, nil)
		return
	}
	form := FormFromRequest(r)
	if err := shared.Validator.Struct(form); err != nil {
		httpx.RespondValidation(w, shared.ValidationMessages(err))
		return
	}

	customer, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		h.logger.Error("update customer", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, NewView(*customer))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	detached, err := h.service.Delete(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.activity.Info(r.Context(), "customer deleted", map[string]any{"id": id, "detached_products": detached})
	httpx.OK(w, nil)
}

func (h *Handler) AttachProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	productID, ok := h.idParam(w, r, "product_id")
	if !ok {
		return
	}
	customer, err := h.service.AttachProduct(r.Context(), id, productID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, NewView(*customer))
}

func (h *Handler) DetachProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	productID, ok := h.idParam(w, r, "product_id")
	if !ok {
		return
	}
	customer, err := h.service.DetachProduct(r.Context(), id, productID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, NewView(*customer))
}

// idParam parses a positive integer URL parameter. Non-numeric ids do not
// resolve to any row, so they answer 404 like any other miss.
func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httpx.Respond(w, http.StatusNotFound, false, nil)
		return 0, false
	}
	return id, true
}
