package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "guard_bot"

var (
	AutomodVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "automod_verdicts_total",
		Help:      "Total number of automoderation violations by reason",
	}, []string{"reason"})

	DeletedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "deleted_messages_total",
		Help:      "Total number of deleted messages",
	}, []string{"reason"})

	WarnsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "warns_issued_total",
		Help:      "Total number of warnings issued",
	})

	CleanupRemovals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cleanup_removals_total",
		Help:      "Total number of users removed by the inactivity sweep",
	}, []string{"mode"})

	TransportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "transport_errors_total",
		Help:      "Total number of failed platform API calls",
	}, []string{"op"})

	UpdateProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "update_processing_duration_seconds",
		Help:      "Duration of update processing",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type", "status"})
)

func IncVerdict(reason string) {
	AutomodVerdicts.WithLabelValues(reason).Inc()
}

func IncDeletedMessages(reason string) {
	DeletedMessages.WithLabelValues(reason).Inc()
}

func IncWarn() {
	WarnsIssued.Inc()
}

func IncCleanupRemoval(mode string) {
	CleanupRemovals.WithLabelValues(mode).Inc()
}

func IncTransportError(op string) {
	TransportErrors.WithLabelValues(op).Inc()
}

func ObserveUpdateProcessing(updateType string, duration float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpdateProcessingDuration.WithLabelValues(updateType, status).Observe(duration)
}
