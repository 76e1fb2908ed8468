package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for booking flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	conflictsTotal     prometheus.Counter
	cancellationsTotal *prometheus.CounterVec
	slotQueryLatency   prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lessonbook",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total appointments created",
		}, []string{"location", "recurring"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lessonbook",
			Subsystem: "bookings",
			Name:      "conflicts_total",
			Help:      "Total booking requests rejected for conflicts",
		}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lessonbook",
			Subsystem: "bookings",
			Name:      "cancellations_total",
			Help:      "Total cancelled appointment instances",
		}, []string{"mode"}),
		slotQueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lessonbook",
			Subsystem: "availability",
			Name:      "slot_query_seconds",
			Help:      "Latency of slot resolution",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.conflictsTotal, m.cancellationsTotal, m.slotQueryLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(location string, recurring bool) {
	if m == nil {
		return
	}
	label := "false"
	if recurring {
		label = "true"
	}
	m.bookingsTotal.WithLabelValues(location, label).Inc()
}

func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *BookingMetrics) ObserveCancellation(mode string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(mode).Inc()
}

func (m *BookingMetrics) ObserveSlotQuery(seconds float64) {
	if m == nil {
		return
	}
	m.slotQueryLatency.Observe(seconds)
}
