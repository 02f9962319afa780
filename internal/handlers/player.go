package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/middleware"
	"progression/internal/repository"
	"progression/internal/service"
)

// PlayerHandler gère les routes du profil de progression
type PlayerHandler struct {
	ledger       service.LedgerService
	activityRepo repository.ActivityRepository
}

// NewPlayerHandler crée un nouveau handler de profil
func NewPlayerHandler(ledger service.LedgerService, activityRepo repository.ActivityRepository) *PlayerHandler {
	return &PlayerHandler{
		ledger:       ledger,
		activityRepo: activityRepo,
	}
}

// GetSummary godoc
// @Summary      Profil de progression du joueur connecté
// @Description  Récupère niveau, XP, pièces, compteurs et compétences
// @Tags         player
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.PlayerSummary
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/player/summary [get]
func (h *PlayerHandler) GetSummary(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	summary, err := h.ledger.GetSummary(c.Request.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get player summary")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get player summary",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":    summary,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetTransactions godoc
// @Summary      Journal des transactions XP
// @Description  Récupère l'historique paginé des attributions d'XP
// @Tags         player
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/player/transactions [get]
func (h *PlayerHandler) GetTransactions(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	limit, offset := parsePagination(c)

	transactions, err := h.ledger.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list transactions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list transactions",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
		"request_id":   c.GetHeader("X-Request-ID"),
	})
}

// GetActivity godoc
// @Summary      Fil d'activité du joueur
// @Description  Récupère les derniers événements de progression du joueur
// @Tags         player
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/player/activity [get]
func (h *PlayerHandler) GetActivity(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	limit, offset := parsePagination(c)

	activities, err := h.activityRepo.ListRecent(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to list activities")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list activities",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"count":      len(activities),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// parsePagination lit limit/offset depuis la query string.
func parsePagination(c *gin.Context) (int, int) {
	limit := 0
	offset := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
