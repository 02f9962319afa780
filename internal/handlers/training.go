package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/middleware"
	"progression/internal/models"
	"progression/internal/service"
)

// TrainingHandler gère les routes d'entraînement
type TrainingHandler struct {
	training service.TrainingService
}

// NewTrainingHandler crée un nouveau handler d'entraînement
func NewTrainingHandler(training service.TrainingService) *TrainingHandler {
	return &TrainingHandler{training: training}
}

// GetQuestions godoc
// @Summary      Catalogue d'entraînement
// @Description  Récupère les scénarios d'objection disponibles
// @Tags         training
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/training [get]
func (h *TrainingHandler) GetQuestions(c *gin.Context) {
	questions := h.training.GetQuestions()

	c.JSON(http.StatusOK, gin.H{
		"questions":  questions,
		"count":      len(questions),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// SubmitAnswerRequest est le corps d'une réponse d'entraînement
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	ChoiceID   string `json:"choice_id" binding:"required"`
}

// SubmitAnswer godoc
// @Summary      Réponse à un scénario d'entraînement
// @Description  Note la réponse, attribue l'XP et retourne le feedback
// @Tags         training
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body SubmitAnswerRequest true "Réponse choisie"
// @Success      200  {object}  models.TrainingResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/v1/training/answer [post]
func (h *TrainingHandler) SubmitAnswer(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request data",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	result, err := h.training.SubmitAnswer(c.Request.Context(), userID, req.QuestionID, req.ChoiceID)
	if err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     userID,
			"question_id": req.QuestionID,
		}).Error("Failed to submit training answer")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to submit training answer",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
