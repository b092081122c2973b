package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deckgen",
			Name:      "generations_total",
			Help:      "Total presentation generations by source and result",
		},
		[]string{"source", "result"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "deckgen",
			Name:      "generation_duration_seconds",
			Help:      "Duration of presentation generation by source",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	slidesBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "deckgen",
			Name:      "slides_built_total",
			Help:      "Total slides built across all generations",
		},
	)

	templateLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deckgen",
			Name:      "template_loads_total",
			Help:      "Template loads by result",
		},
		[]string{"result"},
	)

	outputBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "deckgen",
			Name:      "output_bytes",
			Help:      "Size of serialized presentations in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	batchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "deckgen",
			Name:      "batch_size",
			Help:      "Number of specifications per batch request",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(generations, generationDuration, slidesBuilt, templateLoads, outputBytes, batchSize)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// ObserveGeneration records one generation attempt end to end.
func ObserveGeneration(source, result string, slides int, dur time.Duration) {
	generations.WithLabelValues(source, result).Inc()
	generationDuration.WithLabelValues(source).Observe(dur.Seconds())
	if slides > 0 {
		slidesBuilt.Add(float64(slides))
	}
}

func IncTemplateLoad(result string) { templateLoads.WithLabelValues(result).Inc() }

func ObserveOutputSize(n int) { outputBytes.Observe(float64(n)) }

func ObserveBatchSize(n int) { batchSize.Observe(float64(n)) }
