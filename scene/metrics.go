package scene

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: kind, result ("ok", "error")
	definitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ndspace_scene_definitions_total",
		Help: "Space definitions by kind and result",
	}, []string{"kind", "result"})

	// Labels: op, result ("ok", "unsupported", "invalid", "error")
	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ndspace_scene_queries_total",
		Help: "Scene queries by op and result",
	}, []string{"op", "result"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ndspace_scene_query_duration_seconds",
		Help:    "Scene query duration",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"op"})

	liftDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ndspace_scene_lift_levels",
		Help:    "Levels climbed per lift query",
		Buckets: []float64{0, 1, 2, 5, 10, 20},
	})
)
