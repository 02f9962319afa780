package monitoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Métriques Prometheus pour le service Progression
var (
	XPAwardsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_xp_awards_total",
			Help: "Total number of XP awards",
		},
		[]string{"source_kind"},
	)

	XPAwardedSum = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_xp_awarded_sum",
			Help: "Total XP awarded",
		},
		[]string{"source_kind"},
	)

	LevelUpsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_level_ups_total",
			Help: "Total number of level-ups",
		},
	)

	AchievementUnlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_achievement_unlocks_total",
			Help: "Total number of achievement unlocks",
		},
		[]string{"category"},
	)

	QuestCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_quest_completions_total",
			Help: "Total number of quest completions",
		},
		[]string{"type"},
	)

	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_purchases_total",
			Help: "Total number of shop purchases",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Metrics structure pour gérer les métriques
type Metrics struct {
	registry *prometheus.Registry
}

// NewMetrics crée une nouvelle instance de metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	// Enregistrer les métriques
	registry.MustRegister(XPAwardsTotal)
	registry.MustRegister(XPAwardedSum)
	registry.MustRegister(LevelUpsTotal)
	registry.MustRegister(AchievementUnlocksTotal)
	registry.MustRegister(QuestCompletionsTotal)
	registry.MustRegister(PurchasesTotal)
	registry.MustRegister(HTTPRequestsTotal)
	registry.MustRegister(HTTPRequestDuration)

	logrus.Info("Prometheus metrics initialized")

	return &Metrics{
		registry: registry,
	}
}

// Handler retourne le handler Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware Prometheus pour instrumenter les requêtes HTTP
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Traiter la requête
		c.Next()

		// Mesurer et enregistrer les métriques
		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			http.StatusText(statusCode),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}
