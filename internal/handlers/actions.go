package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/middleware"
	"progression/internal/models"
	"progression/internal/service"
)

// ActionHandler gère l'enregistrement des actions de jeu
type ActionHandler struct {
	actions service.ActionService
}

// NewActionHandler crée un nouveau handler d'actions
func NewActionHandler(actions service.ActionService) *ActionHandler {
	return &ActionHandler{actions: actions}
}

// RecordActionRequest est le corps d'une action entrante
type RecordActionRequest struct {
	Kind  models.ActionKind `json:"kind" binding:"required"`
	Value int64             `json:"value"`
}

// RecordAction godoc
// @Summary      Enregistrement d'une action de jeu
// @Description  Enregistre une action commerciale et déclenche XP, quêtes et achievements
// @Tags         actions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body RecordActionRequest true "Action à enregistrer"
// @Success      200  {object}  models.ActionOutcome
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/actions [post]
func (h *ActionHandler) RecordAction(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	var req RecordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request data",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	outcome, err := h.actions.RecordAction(c.Request.Context(), userID, req.Kind, req.Value)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"kind":    req.Kind,
		}).Error("Failed to record action")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to record action",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome":    outcome,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
