package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Handler serves the lesson catalog and the owner's booking policy.
type Handler struct {
	catalog *Catalog
	policy  *PolicyStore
	logger  *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(catalog *Catalog, policy *PolicyStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, policy: policy, logger: logger}
}

// ListTypes handles GET /catalog/types
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"types": h.catalog.Types()})
}

// GetPolicy handles GET /owner/policy
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policy.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load policy", "error", err)
		http.Error(w, "failed to load policy", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(policy)
}

// SetPolicy handles PUT /owner/policy
func (h *Handler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var policy Policy
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.policy.Set(r.Context(), policy); err != nil {
		if errors.Is(err, ErrInvalidPolicy) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to save policy", "error", err)
		http.Error(w, "failed to save policy", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
