package suppliers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-erp/meridian/internal/observability"
	"github.com/meridian-erp/meridian/internal/platform/httpx"
)

// Handler exposes the supplier lifecycle over JSON endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		h.metrics.RecordSupplierOp("list", "error")
		httpx.RespondError(w, err)
		return
	}
	h.metrics.RecordSupplierOp("list", "ok")
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "supplier id must be a UUID")
		return
	}

	supplier, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		h.metrics.RecordSupplierOp("get", "missing")
		httpx.Problem(w, http.StatusNotFound, "Not Found", ErrNotFound.Error())
		return
	}
	if err != nil {
		h.logger.Error("get supplier", slog.Any("error", err), slog.String("id", id.String()))
		h.metrics.RecordSupplierOp("get", "error")
		httpx.RespondError(w, err)
		return
	}
	h.metrics.RecordSupplierOp("get", "ok")
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	if supplier.Emails == nil {
		supplier.Emails = []Email{}
	}
	if supplier.Phones == nil {
		supplier.Phones = []Phone{}
	}

	if errs := Validate(supplier); len(errs) > 0 {
		h.metrics.RecordSupplierOp("create", "invalid")
		httpx.ValidationProblem(w, FieldErrorMap(errs))
		return
	}

	if err := h.service.Insert(r.Context(), supplier); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			h.metrics.RecordSupplierOp("create", "duplicate")
			httpx.Problem(w, http.StatusConflict, "Duplicate", ErrDuplicateID.Error())
			return
		}
		h.logger.Error("insert supplier", slog.Any("error", err), slog.String("id", supplier.ID.String()))
		h.metrics.RecordSupplierOp("create", "error")
		httpx.RespondError(w, err)
		return
	}

	h.metrics.RecordSupplierOp("create", "ok")
	w.Header().Set("Location", "/suppliers/"+supplier.ID.String())
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "supplier id must be a UUID")
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrSupplierActive) {
		h.metrics.RecordSupplierOp("delete", "rejected")
		httpx.Problem(w, http.StatusBadRequest, "Conflict", ErrSupplierActive.Error())
		return
	}
	if err != nil {
		h.logger.Error("delete supplier", slog.Any("error", err), slog.String("id", id.String()))
		h.metrics.RecordSupplierOp("delete", "error")
		httpx.RespondError(w, err)
		return
	}

	// deleted is nil when nothing existed; the operation is idempotent and
	// still answers 200.
	h.metrics.RecordSupplierOp("delete", "ok")
	httpx.JSON(w, http.StatusOK, deleted)
}
