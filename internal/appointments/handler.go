package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakhurst/lessonbook/internal/catalog"
	"github.com/oakhurst/lessonbook/internal/customers"
	httpmiddleware "github.com/oakhurst/lessonbook/internal/http/middleware"
	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	ownerID string
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, ownerID string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, ownerID: ownerID, logger: logger}
}

// Book handles POST /appointments
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	customerID, ok := h.customerFromContext(r)
	if !ok {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return
	}
	req.CustomerID = customerID

	result, err := h.service.Book(r.Context(), &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": conflict.Error(),
			"date":  conflict.Date.Format(time.DateOnly),
		})
	case errors.Is(err, customers.ErrCustomerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrUnknownType),
		errors.Is(err, ErrTrialRecurring),
		errors.Is(err, ErrBadRecurrence),
		errors.Is(err, ErrBadLocation),
		errors.Is(err, ErrMissingStart),
		errors.Is(err, ErrMissingCustomer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("booking failed", "error", err)
		http.Error(w, "booking failed", http.StatusInternalServerError)
	}
}

// cancelBody is the body of POST /appointments/{id}/cancel.
type cancelBody struct {
	Series bool   `json:"series"`
	Reason string `json:"reason"`
}

// Cancel handles POST /appointments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var body cancelBody
	if r.Body != nil {
		// Empty body means a plain single-instance cancel.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	subject, ok := httpmiddleware.SubjectFromContext(r.Context())
	if !ok {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return
	}

	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load appointment", "error", err, "id", id)
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	if subject != h.ownerID && subject != appt.CustomerID.String() {
		http.Error(w, ErrNotPermitted.Error(), http.StatusForbidden)
		return
	}

	result, err := h.service.Cancel(r.Context(), &CancelRequest{
		AppointmentID: id,
		Actor:         subject,
		Reason:        body.Reason,
		CancelSeries:  body.Series,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrAlreadyCancelled):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("cancellation failed", "error", err, "id", id)
			http.Error(w, "cancellation failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CancellationAdvisory handles GET /appointments/{id}/cancellation
func (h *Handler) CancellationAdvisory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	feeFree, lateFee, err := h.service.CancellationAdvisory(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("advisory failed", "error", err, "id", id)
		http.Error(w, "advisory failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fee_free":       feeFree,
		"late_fee_cents": lateFee,
	})
}

// ListMine handles GET /appointments/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.customerFromContext(r)
	if !ok {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return
	}

	appts, err := h.service.ListUpcomingForCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "customer_id", customerID)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// ListRange handles GET /owner/appointments?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListRange(w http.ResponseWriter, r *http.Request) {
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

	appts, err := h.service.ListRange(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}

// paidBody is the body of POST /owner/appointments/{id}/paid.
type paidBody struct {
	Paid bool `json:"paid"`
}

// SetPaid handles POST /owner/appointments/{id}/paid
func (h *Handler) SetPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var body paidBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SetPaid(r.Context(), id, body.Paid); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update payment", "error", err, "id", id)
		http.Error(w, "failed to update payment", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) customerFromContext(r *http.Request) (uuid.UUID, bool) {
	subject, ok := httpmiddleware.SubjectFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
