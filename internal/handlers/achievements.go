package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/middleware"
	"progression/internal/service"
)

// AchievementHandler gère les routes des achievements
type AchievementHandler struct {
	achievements service.AchievementService
}

// NewAchievementHandler crée un nouveau handler d'achievements
func NewAchievementHandler(achievements service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

// GetProgress godoc
// @Summary      Progression des achievements
// @Description  Récupère le catalogue annoté de l'état du joueur
// @Tags         achievements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/achievements [get]
func (h *AchievementHandler) GetProgress(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	progress, err := h.achievements.GetProgress(c.Request.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get achievement progress")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get achievement progress",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": progress,
		"count":        len(progress),
		"request_id":   c.GetHeader("X-Request-ID"),
	})
}

// CheckAchievements godoc
// @Summary      Réévaluation des achievements
// @Description  Réévalue les conditions et débloque ce qui est satisfait
// @Tags         achievements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/achievements/check [post]
func (h *AchievementHandler) CheckAchievements(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	unlocked, err := h.achievements.CheckAchievements(c.Request.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to check achievements")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to check achievements",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unlocked":   unlocked,
		"count":      len(unlocked),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
