package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"progression/internal/models"
	"progression/internal/repository"
	"progression/internal/service"
)

// AdminHandler gère les routes d'administration
type AdminHandler struct {
	ledger    service.LedgerService
	statsRepo repository.PlayerStatsRepository
}

// NewAdminHandler crée un nouveau handler d'administration
func NewAdminHandler(ledger service.LedgerService, statsRepo repository.PlayerStatsRepository) *AdminHandler {
	return &AdminHandler{
		ledger:    ledger,
		statsRepo: statsRepo,
	}
}

// ListPlayers godoc
// @Summary      Liste des comptes de progression
// @Description  Récupère les stats de tous les joueurs (admin)
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /api/v1/admin/players [get]
func (h *AdminHandler) ListPlayers(c *gin.Context) {
	players, err := h.statsRepo.ListAll(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list players")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list players",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"players":    players,
		"count":      len(players),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// AwardXPRequest est le corps d'une attribution manuelle d'XP
type AwardXPRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Amount int64     `json:"amount" binding:"required"`
	Reason string    `json:"reason" binding:"required"`
}

// AwardXP godoc
// @Summary      Attribution manuelle d'XP
// @Description  Attribue de l'XP à un joueur avec une raison d'audit (admin)
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body AwardXPRequest true "Attribution à effectuer"
// @Success      200  {object}  models.AwardResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /api/v1/admin/award [post]
func (h *AdminHandler) AwardXP(c *gin.Context) {
	var req AwardXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request data",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	result, err := h.ledger.Award(c.Request.Context(), req.UserID, req.Amount, nil, req.Reason, models.SourceManual, "")
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithField("user_id", req.UserID).Error("Manual XP award failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Manual XP award failed",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
