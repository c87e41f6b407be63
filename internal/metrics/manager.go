package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/myrjola/liftplan/internal/workout"
)

// Manager holds the application metrics and records workout domain events.
type Manager struct {
	// counters
	CounterPlansGenerated     *prometheus.CounterVec
	CounterAccessories        *prometheus.CounterVec
	CounterGuardVetoes        *prometheus.CounterVec
	CounterRotationStoreError *prometheus.CounterVec
	CounterWorkoutsCompleted  *prometheus.CounterVec
	CounterRequests           *prometheus.CounterVec
	CounterHandlerPanics      prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("liftplan", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("liftplan", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterPlansGenerated := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plans_generated",
		Help:      "The total number of generated workout plans",
	}, []string{"strategy", "sub_type"})
	counterAccessories := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "accessories_selected",
		Help:      "The total number of accessories added to plans by the rotation",
	}, []string{"category"})
	counterGuardVetoes := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "consecutive_type_vetoes",
		Help:      "The total number of plans refused because of consecutive workout types",
	}, []string{"sub_type"})
	counterRotationStoreError := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rotation_store_errors",
		Help:      "The total number of failed rotation state loads and saves",
	}, []string{"operation"})
	counterWorkoutsCompleted := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_completed",
		Help:      "The total number of completed workouts",
	}, []string{"strategy"})
	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandlerPanics := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "current_requests",
		Help:        "Current number of open connections",
		ConstLabels: nil,
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterPlansGenerated:     counterPlansGenerated,
		CounterAccessories:        counterAccessories,
		CounterGuardVetoes:        counterGuardVetoes,
		CounterRotationStoreError: counterRotationStoreError,
		CounterWorkoutsCompleted:  counterWorkoutsCompleted,
		CounterRequests:           counterRequests,
		CounterHandlerPanics:      counterHandlerPanics,
		GaugeRequests:             gaugeRequests,
		HistogramRequestDuration:  histogramRequestDuration,
	}
}

func (m *Manager) PlanGenerated(strategyID string, subType workout.SubType) {
	m.CounterPlansGenerated.WithLabelValues(strategyID, string(subType)).Inc()
}

func (m *Manager) AccessorySelected(label string) {
	m.CounterAccessories.WithLabelValues(label).Inc()
}

func (m *Manager) GenerationVetoed(subType workout.SubType) {
	m.CounterGuardVetoes.WithLabelValues(string(subType)).Inc()
}

func (m *Manager) RotationStoreFailed(operation string) {
	m.CounterRotationStoreError.WithLabelValues(operation).Inc()
}

func (m *Manager) WorkoutCompleted(strategyID string) {
	m.CounterWorkoutsCompleted.WithLabelValues(strategyID).Inc()
}
