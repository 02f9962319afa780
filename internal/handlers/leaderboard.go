package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/config"
	"progression/internal/middleware"
	"progression/internal/models"
	"progression/internal/service"
)

// LeaderboardHandler gère les routes de classement
type LeaderboardHandler struct {
	leaderboard service.LeaderboardService
	config      *config.Config
}

// NewLeaderboardHandler crée un nouveau handler de classement
func NewLeaderboardHandler(leaderboard service.LeaderboardService, config *config.Config) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		config:      config,
	}
}

func (h *LeaderboardHandler) period(c *gin.Context) models.PeriodKind {
	period := models.PeriodKind(c.DefaultQuery("period", string(models.PeriodAllTime)))
	return period
}

// GetRanking godoc
// @Summary      Classement d'une période
// @Description  Récupère le haut du classement daily, weekly, monthly ou all_time
// @Tags         leaderboard
// @Security     BearerAuth
// @Produce      json
// @Param        period query string false "Période du classement" default(all_time)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetRanking(c *gin.Context) {
	period := h.period(c)

	limit := h.config.Game.LeaderboardPageSize
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= h.config.Game.LeaderboardPageSize {
			limit = v
		}
	}

	rows, err := h.leaderboard.GetRanking(c.Request.Context(), period, limit)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithField("period", period).Error("Failed to get leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get leaderboard",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":     period,
		"rows":       rows,
		"count":      len(rows),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetRankProgress godoc
// @Summary      Position du joueur connecté
// @Description  Récupère le rang du joueur et le score manquant pour dépasser le rang supérieur
// @Tags         leaderboard
// @Security     BearerAuth
// @Produce      json
// @Param        period query string false "Période du classement" default(all_time)
// @Success      200  {object}  models.RankProgress
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/leaderboard/me [get]
func (h *LeaderboardHandler) GetRankProgress(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	period := h.period(c)

	progress, err := h.leaderboard.GetRankProgress(c.Request.Context(), userID, period)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get rank progress")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get rank progress",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":     period,
		"progress":   progress,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetNeighbors godoc
// @Summary      Classement autour du joueur connecté
// @Description  Récupère la tranche du classement centrée sur le joueur
// @Tags         leaderboard
// @Security     BearerAuth
// @Produce      json
// @Param        period query string false "Période du classement" default(all_time)
// @Param        span   query int    false "Nombre de voisins de chaque côté" default(2)
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/leaderboard/neighbors [get]
func (h *LeaderboardHandler) GetNeighbors(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	period := h.period(c)

	span := 2
	if raw := c.Query("span"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 && v <= 10 {
			span = v
		}
	}

	rows, err := h.leaderboard.GetNeighbors(c.Request.Context(), userID, period, span)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get leaderboard neighbors")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get leaderboard neighbors",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":     period,
		"rows":       rows,
		"count":      len(rows),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetTopPerformers godoc
// @Summary      Meneurs par catégorie
// @Description  Récupère les meilleurs joueurs par appels, rendez-vous et série
// @Tags         leaderboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.TopPerformers
// @Router       /api/v1/leaderboard/top [get]
func (h *LeaderboardHandler) GetTopPerformers(c *gin.Context) {
	top, err := h.leaderboard.GetTopPerformers(c.Request.Context(), h.config.Game.TopPerformersSize)
	if err != nil {
		logrus.WithError(err).Error("Failed to get top performers")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get top performers",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"top":        top,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
