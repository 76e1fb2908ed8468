package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Handler handles HTTP requests for availability
type Handler struct {
	service *Service
	ownerID string
	logger  *logging.Logger
}

// NewHandler creates a new availability handler
func NewHandler(service *Service, ownerID string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, ownerID: ownerID, logger: logger}
}

// GetSlots handles GET /availability/slots?date=YYYY-MM-DD&type=lesson-30
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	typeID := r.URL.Query().Get("type")

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slots, err := h.service.SlotsFor(r.Context(), h.ownerID, date, typeID)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to resolve slots", "error", err, "date", dateStr)
		http.Error(w, "failed to resolve slots", http.StatusInternalServerError)
		return
	}

	if slots == nil {
		slots = []Slot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": dateStr, "slots": slots})
}

// weeklyRequest is the body of PUT /owner/availability/weekly.
type weeklyRequest struct {
	Windows []WeeklyWindow `json:"windows"`
}

// ReplaceWeekly handles PUT /owner/availability/weekly
func (h *Handler) ReplaceWeekly(w http.ResponseWriter, r *http.Request) {
	var req weeklyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.ReplaceWeekly(r.Context(), h.ownerID, req.Windows); err != nil {
		if errors.Is(err, ErrInvalidWindow) || errors.Is(err, ErrOverlappingWindows) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to replace weekly availability", "error", err)
		http.Error(w, "failed to replace weekly availability", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListWeekly handles GET /owner/availability/weekly
func (h *Handler) ListWeekly(w http.ResponseWriter, r *http.Request) {
	windows, err := h.service.ListWeekly(r.Context(), h.ownerID)
	if err != nil {
		h.logger.Error("failed to list weekly availability", "error", err)
		http.Error(w, "failed to list weekly availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, weeklyRequest{Windows: windows})
}

// SetOverride handles POST /owner/availability/overrides
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	var o Override
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.OwnerID = h.ownerID

	if err := h.service.SetOverride(r.Context(), &o); err != nil {
		if errors.Is(err, ErrBadDate) || errors.Is(err, ErrInvalidWindow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to set override", "error", err, "date", o.Date)
		http.Error(w, "failed to set override", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

// ListOverrides handles GET /owner/availability/overrides
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.service.ListOverrides(r.Context(), h.ownerID)
	if err != nil {
		h.logger.Error("failed to list overrides", "error", err)
		http.Error(w, "failed to list overrides", http.StatusInternalServerError)
		return
	}
	if overrides == nil {
		overrides = []Override{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": overrides})
}

// DeleteOverride handles DELETE /owner/availability/overrides/{id}. The path
// segment is either an override id or a calendar date; a date clears that
// day's override.
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")

	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		err = h.service.RemoveOverride(r.Context(), id)
	} else {
		err = h.service.RemoveOverrideByDate(r.Context(), h.ownerID, param)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrBadDate):
			http.Error(w, "invalid override id or date", http.StatusBadRequest)
		case errors.Is(err, ErrOverrideNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("failed to delete override", "error", err, "ref", param)
			http.Error(w, "failed to delete override", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
