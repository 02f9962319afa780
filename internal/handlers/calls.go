package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/external"
	"progression/internal/middleware"
	"progression/internal/models"
	"progression/internal/service"
)

// CallHandler gère l'analyse des appels
type CallHandler struct {
	calls     service.CallService
	telephony external.TelephonyClientInterface
}

// NewCallHandler crée un nouveau handler d'appels
func NewCallHandler(calls service.CallService, telephony external.TelephonyClientInterface) *CallHandler {
	return &CallHandler{
		calls:     calls,
		telephony: telephony,
	}
}

// AnalyzeCallRequest est le corps d'une analyse d'appel
type AnalyzeCallRequest struct {
	ExternalID       string          `json:"external_id" binding:"required"`
	CallType         models.CallType `json:"call_type"`
	Answered         bool            `json:"answered"`
	Duration         int64           `json:"duration"`
	PositiveSegments int             `json:"positive_segments"`
	NegativeSegments int             `json:"negative_segments"`
	ActionItems      int             `json:"action_items"`
	TopicsCovered    int             `json:"topics_covered"`
	StartedAt        time.Time       `json:"started_at"`
}

// AnalyzeCall godoc
// @Summary      Analyse d'un appel
// @Description  Score l'appel et attribue l'XP correspondante
// @Tags         calls
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body AnalyzeCallRequest true "Signaux de l'appel"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/calls/analyze [post]
func (h *CallHandler) AnalyzeCall(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	var req AnalyzeCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request data",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	record := &models.CallRecord{
		UserID:           userID,
		ExternalID:       req.ExternalID,
		CallType:         req.CallType,
		Answered:         req.Answered,
		Duration:         req.Duration,
		PositiveSegments: req.PositiveSegments,
		NegativeSegments: req.NegativeSegments,
		ActionItems:      req.ActionItems,
		TopicsCovered:    req.TopicsCovered,
		StartedAt:        req.StartedAt,
	}

	h.analyze(c, record)
}

// ImportCall godoc
// @Summary      Import d'un appel depuis le fournisseur de téléphonie
// @Description  Récupère l'appel chez le fournisseur puis le score
// @Tags         calls
// @Security     BearerAuth
// @Produce      json
// @Param        externalId path string true "Identifiant fournisseur de l'appel"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/calls/import/{externalId} [post]
func (h *CallHandler) ImportCall(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	externalID := c.Param("externalId")

	providerCall, err := h.telephony.GetCall(c.Request.Context(), externalID)
	if err != nil {
		if models.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Call not found at telephony provider",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithField("external_id", externalID).Error("Failed to fetch call from provider")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Telephony provider unavailable",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	record := providerCall.ToCallRecord()
	record.UserID = userID

	h.analyze(c, record)
}

func (h *CallHandler) analyze(c *gin.Context, record *models.CallRecord) {
	score, outcome, err := h.calls.AnalyzeCall(c.Request.Context(), record.UserID, record)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     record.UserID,
			"external_id": record.ExternalID,
		}).Error("Call analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Call analysis failed",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":      score,
		"outcome":    outcome,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
