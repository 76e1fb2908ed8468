package reports

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Handler handles owner report requests.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a reports handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Summary handles GET /owner/reports/payments?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Summary(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("payment summary failed", "error", err)
		http.Error(w, "payment summary failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

// Projection handles GET /owner/reports/projection
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	projection, err := h.service.ProjectedMonthlyRevenue(r.Context())
	if err != nil {
		h.logger.Error("revenue projection failed", "error", err)
		http.Error(w, "revenue projection failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(projection)
}
