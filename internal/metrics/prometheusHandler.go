package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "answer_request_duration_seconds",
	Help:    "Total time spent answering one request.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"mode"})

var streamFragmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "stream_fragments_forwarded_total",
	Help: "Incremental text fragments forwarded to streaming consumers",
})

var ingestedChunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingested_chunks_total",
	Help: "Chunks written to the vector index, labelled by category",
}, []string{"category"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streaming handlers keep working
// behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureAnswerMetrics(mode string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(mode).Observe(timeElapsed.Seconds())
}

func IncrementStreamFragments() {
	streamFragmentsTotal.Inc()
}

func CountIngestedChunks(category string, n int) {
	ingestedChunksTotal.WithLabelValues(category).Add(float64(n))
}
