package customers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Handler handles HTTP requests for customer records. All routes are
// owner-gated at the router.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new customers handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /owner/customers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cust, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName), errors.Is(err, ErrMissingContact), errors.Is(err, ErrInvalidDiscount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to create customer", "error", err)
			http.Error(w, "failed to create customer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(cust)
}

// List handles GET /owner/customers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	custs, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		http.Error(w, "failed to list customers", http.StatusInternalServerError)
		return
	}
	if custs == nil {
		custs = []*Customer{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"customers": custs})
}

// Get handles GET /owner/customers/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	cust, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load customer", "error", err, "id", id)
		http.Error(w, "failed to load customer", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cust)
}

// SetDiscount handles PUT /owner/customers/{id}/discount
func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	var body struct {
		DiscountPct int `json:"discount_pct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.SetDiscount(r.Context(), id, body.DiscountPct); err != nil {
		switch {
		case errors.Is(err, ErrInvalidDiscount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrCustomerNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("failed to set discount", "error", err, "id", id)
			http.Error(w, "failed to set discount", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
