package products

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memoryRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo), nil)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func doForm(t *testing.T, router chi.Router, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, any) {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Data    any  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Success, body.Data
}

func TestIndexEmptyIs204(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestCreateUnownedProduct(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{"name": {"Widget"}})
	require.Equal(t, http.StatusOK, rec.Code)

	success, data := envelope(t, rec)
	require.True(t, success)
	obj := data.(map[string]any)
	require.Equal(t, "Widget", obj["name"])
	require.Equal(t, "new", obj["status"])
	require.Equal(t, map[string]any{}, obj["customer"], "unowned product serializes customer as empty object")
	require.NotContains(t, obj, "issn")
}

func TestCreateOwnedProductNestsCustomer(t *testing.T) {
	repo := newMemoryRepo()
	repo.addCustomer("Marisa", "Ward")
	router := newTestRouter(repo)

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{
		"name":        {"Widget"},
		"customer_id": {"1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := envelope(t, rec)
	obj := data.(map[string]any)
	nested, ok := obj["customer"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Marisa", nested["first_name"])
	require.Equal(t, "Ward", nested["last_name"])
}

func TestCreateWithDanglingCustomerIs404(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{
		"name":        {"Widget"},
		"customer_id": {"42"},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	success, _ := envelope(t, rec)
	require.False(t, success)
}

func TestCreateValidationErrors(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{
		"name":   {"W"},
		"status": {"bogus"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	_, data := envelope(t, rec)
	fields := data.(map[string]any)
	require.Equal(t, "This value is too short. It should have 2 characters or more.", fields["name"])
	require.Equal(t, "The value you selected is not a valid choice.", fields["status"])
}

func TestUpdateFlow(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{"name": {"Widget"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doForm(t, router, http.MethodPost, "/products/1", url.Values{
		"name":   {"Widget Pro"},
		"status": {"approved"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := envelope(t, rec)
	obj := data.(map[string]any)
	require.Equal(t, "Widget Pro", obj["name"])
	require.Equal(t, "approved", obj["status"])
}

func TestDeleteFlow(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{"name": {"Widget"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doForm(t, router, http.MethodDelete, "/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doForm(t, router, http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doForm(t, router, http.MethodDelete, "/products/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachAndDetachCustomerEndpoints(t *testing.T) {
	repo := newMemoryRepo()
	repo.addCustomer("Marisa", "Ward")
	router := newTestRouter(repo)

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{"name": {"Widget"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doForm(t, router, http.MethodPost, "/products/1/customer/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := envelope(t, rec)
	nested := data.(map[string]any)["customer"].(map[string]any)
	require.Equal(t, "Marisa", nested["first_name"])

	rec = doForm(t, router, http.MethodDelete, "/products/1/customer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, data = envelope(t, rec)
	require.Equal(t, map[string]any{}, data.(map[string]any)["customer"])
}

func TestAttachMissingCustomerEndpoint(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodPost, "/products", url.Values{"name": {"Widget"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doForm(t, router, http.MethodPost, "/products/1/customer/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadNonNumericIDIs404(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rec := doForm(t, router, http.MethodGet, "/products/widget", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
