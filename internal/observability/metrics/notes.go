package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NoteOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_operations_total",
			Help: "Total number of note service operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	NoteCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_cache_lookups_total",
			Help: "Total number of note cache lookups by result (hit, miss, error, bypass)",
		},
		[]string{"result"},
	)

	NoteStreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "note_stream_subscribers",
			Help: "Number of connected note change feed subscribers",
		},
	)

	NoteStreamEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_stream_events_total",
			Help: "Total number of note change events broadcast by type",
		},
		[]string{"type"},
	)
)
