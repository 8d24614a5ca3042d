package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GenerationRuns counts finished generation runs by outcome
	// (success, partial, error).
	GenerationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockgen_generation_runs_total",
		Help: "Finished mock-order generation runs by outcome.",
	}, []string{"outcome"})

	// EntitiesGenerated counts rows created per entity type across all runs.
	EntitiesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockgen_entities_generated_total",
		Help: "Rows created by the mock-order generator, by entity.",
	}, []string{"entity"})

	// DeletionRuns counts delete-by-event calls by outcome.
	DeletionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockgen_deletion_runs_total",
		Help: "Test-data deletion calls by outcome.",
	}, []string{"outcome"})
)

// Handler exposes the default Prometheus registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
