package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})

	// Extraction metrics
	EntitiesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kg_entities_extracted_total",
			Help: "Number of entity spans collected, by label",
		},
		[]string{"label"},
	)

	RelationsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kg_relations_extracted_total",
		Help: "Number of subject-verb-object triples extracted",
	})

	DroppedCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kg_dropped_candidates_total",
		Help: "Subject-verb pairs dropped because the verb had no direct object",
	})

	ParserErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kg_parser_errors_total",
			Help: "Total number of parser failures",
		},
		[]string{"parser"},
	)

	// Graph metrics
	GraphNodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graph_nodes_total",
		Help: "Number of nodes in the last extracted graph",
	})

	GraphEdgeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graph_edges_total",
		Help: "Number of edges in the last extracted graph",
	})

	GraphEdgeOverwrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graph_edge_overwrites_total",
		Help: "Edges whose label was replaced by a later relation on the same pair",
	})
)

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
