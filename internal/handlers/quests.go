package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/middleware"
	"progression/internal/service"
)

// QuestHandler gère les routes des quêtes
type QuestHandler struct {
	quests service.QuestService
}

// NewQuestHandler crée un nouveau handler de quêtes
func NewQuestHandler(quests service.QuestService) *QuestHandler {
	return &QuestHandler{quests: quests}
}

// GetOpenQuests godoc
// @Summary      Quêtes ouvertes du joueur
// @Description  Assigne les quêtes périodiques manquantes puis retourne les quêtes en cours
// @Tags         quests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/quests [get]
func (h *QuestHandler) GetOpenQuests(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	quests, err := h.quests.GetOpenQuests(c.Request.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get open quests")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get open quests",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quests":     quests,
		"count":      len(quests),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
