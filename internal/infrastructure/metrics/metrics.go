// Package metrics expõe contadores e histogramas Prometheus da aplicação.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

// Registry agrupa as métricas num registry próprio (sem estado global)
type Registry struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	predictions     *prometheus.CounterVec
	confidence      prometheus.Histogram
	persistFailures prometheus.Counter
}

// New cria e registra todas as métricas
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"path"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictions_total",
				Help: "Total number of successful classifications by predicted class",
			}, []string{"class"},
		),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_confidence",
			Help:    "Confidence of the predicted class",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "history_persist_failures_total",
			Help: "Predictions returned to the user whose history record could not be saved",
		}),
	}

	r.registry.MustRegister(
		r.requestCount,
		r.requestDuration,
		r.predictions,
		r.confidence,
		r.persistFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var _ ports.PredictionMetrics = (*Registry)(nil)

func (r *Registry) ObservePrediction(label string, confidence float64) {
	r.predictions.WithLabelValues(label).Inc()
	r.confidence.Observe(confidence)
}

func (r *Registry) HistoryPersistFailed() {
	r.persistFailures.Inc()
}

// Middleware registra contagem e duração por rota (template da rota, não o path bruto)
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.requestCount.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

// Handler expõe /metrics
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer permite inspecionar as métricas em testes
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
