package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"progression/internal/config"
	"progression/internal/database"
)

var startTime = time.Now()

// HealthChecker interface pour vérifier la santé des composants
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler gère les endpoints de santé et monitoring
type HealthHandler struct {
	config *config.Config
	db     HealthChecker
}

// NewHealthHandler crée un nouveau handler de santé
func NewHealthHandler(config *config.Config, db HealthChecker) *HealthHandler {
	return &HealthHandler{
		config: config,
		db:     db,
	}
}

// HealthCheck endpoint de santé du service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks := make(map[string]interface{})
	status := "healthy"

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			status = "unhealthy"
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "unknown",
			"error":  "database connection not available",
		}
		status = "degraded"
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	systemInfo := map[string]interface{}{
		"goroutines":   runtime.NumGoroutine(),
		"memory_alloc": bToMb(m.Alloc),
		"memory_total": bToMb(m.TotalAlloc),
		"memory_sys":   bToMb(m.Sys),
		"gc_cycles":    m.NumGC,
	}

	health := map[string]interface{}{
		"status":      status,
		"service":     "progression",
		"version":     "1.0.0",
		"timestamp":   time.Now().Unix(),
		"uptime":      time.Since(startTime).Seconds(),
		"environment": h.config.Server.Environment,
		"checks":      checks,
		"system":      systemInfo,
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	} else if status == "degraded" {
		httpStatus = http.StatusPartialContent
	}

	c.JSON(httpStatus, health)
}

// Readiness endpoint de préparation (Kubernetes)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ready := true
	checks := make(map[string]interface{})

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			ready = false
			checks["database"] = "not ready"
		} else {
			checks["database"] = "ready"
		}
	}

	status := "ready"
	if !ready {
		status = "not ready"
	}

	readiness := map[string]interface{}{
		"status":    status,
		"service":   "progression",
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}

	httpStatus := http.StatusOK
	if !ready {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, readiness)
}

// Liveness endpoint de vivacité (Kubernetes)
func (h *HealthHandler) Liveness(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "alive",
		"service":    "progression",
		"timestamp":  time.Now().Unix(),
		"uptime":     time.Since(startTime).Seconds(),
		"memory_mb":  bToMb(m.Alloc),
		"goroutines": runtime.NumGoroutine(),
	})
}

// Status endpoint simple pour load balancer
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "progression",
		"time":    time.Now().Unix(),
	})
}

// Version endpoint
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"service":     "progression",
		"version":     "1.0.0",
		"build_time":  startTime.Format(time.RFC3339),
		"go_version":  runtime.Version(),
		"environment": h.config.Server.Environment,
	})
}

// Ping endpoint simple
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"time":    time.Now().Unix(),
	})
}

// DatabaseStats affiche les statistiques de la base de données (debug)
func (h *HealthHandler) DatabaseStats(c *gin.Context) {
	if h.config.Server.Environment == "production" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Debug endpoints disabled in production"})
		return
	}

	if db, ok := h.db.(*database.DB); ok {
		stats := db.Stats()

		c.JSON(http.StatusOK, gin.H{
			"database_stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration":        stats.WaitDuration.Milliseconds(),
			},
			"timestamp": time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Database statistics not available",
	})
}

// bToMb convertit les bytes en megabytes
func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
