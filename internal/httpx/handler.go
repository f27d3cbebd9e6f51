package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/habbo-store/internal/admin"
	"github.com/jcmexdev/habbo-store/internal/catalog"
	"github.com/jcmexdev/habbo-store/internal/domain"
	"github.com/jcmexdev/habbo-store/internal/orders"
	"github.com/jcmexdev/habbo-store/internal/upload"
)

// AdminTokenHeader carries the capability token issued by the admin gate.
const AdminTokenHeader = "X-Admin-Token"

// Handler handles the storefront's HTTP endpoints.
type Handler struct {
	catalog *catalog.Service
	orders  *orders.Service
	gate    *admin.Gate
	uploads upload.Store // nil disables /upload
}

func NewHandler(c *catalog.Service, o *orders.Service, g *admin.Gate, u upload.Store) *Handler {
	return &Handler{
		catalog: c,
		orders:  o,
		gate:    g,
		uploads: u,
	}
}

// ListProducts serves the filtered, paginated catalogue.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     intQuery(q.Get("page"), 1),
		Limit:    intQuery(q.Get("limit"), 12),
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}

	page, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page, "")
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p, "")
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Stock == nil {
		writeError(w, http.StatusBadRequest, "required fields: name, price, image, stock")
		return
	}

	p, err := h.catalog.Create(r.Context(), catalog.CreateProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       *req.Stock,
		Category:    req.Category,
		Featured:    req.Featured,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, p, "product created")
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), catalog.UpdateProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Stock:       req.Stock,
		Category:    req.Category,
		Featured:    req.Featured,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p, "product updated")
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil, "product deleted")
}

// CreateOrder runs checkout: validate the proposed order, then commit the
// atomic write phase. The response carries the created order with its
// items and products nested.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := orders.CreateOrder{
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		Total:     req.Total,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, orders.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order, err := h.orders.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, order, "order created")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, order, "")
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := h.orders.List(r.Context(), domain.OrderFilter{
		Status: domain.OrderStatus(q.Get("status")),
		Page:   intQuery(q.Get("page"), 1),
		Limit:  intQuery(q.Get("limit"), 10),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page, "")
}

// UploadImage accepts a multipart image and delegates to the configured
// image store.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		writeError(w, http.StatusNotFound, "uploads are not configured")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file sent")
		return
	}
	defer file.Close()

	result, err := h.uploads.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, result, "upload complete")
}

// AdminLogin exchanges the admin password for a session token. A wrong
// password gets a 401 and no state change — the caller simply re-prompts.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := h.gate.Unlock(req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, adminLoginResponse{Token: token}, "")
}

func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(r.Header.Get(AdminTokenHeader))
	writeData(w, http.StatusOK, nil, "logged out")
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "healthy"}, "")
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// writeDomainError maps the error taxonomy to HTTP statuses. Validation
// and stock problems are client errors with descriptive messages;
// everything unexpected is a generic 500 so no internal state leaks.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &stockErr),
		errors.Is(err, domain.ErrProductReferenced):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrWrongSecret):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
