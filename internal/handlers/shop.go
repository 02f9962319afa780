package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"progression/internal/middleware"
	"progression/internal/models"
	"progression/internal/service"
)

// ShopHandler gère les routes de la boutique
type ShopHandler struct {
	shop service.ShopService
}

// NewShopHandler crée un nouveau handler de boutique
func NewShopHandler(shop service.ShopService) *ShopHandler {
	return &ShopHandler{shop: shop}
}

// GetCatalog godoc
// @Summary      Catalogue de la boutique
// @Description  Récupère les articles actifs triés par ordre d'affichage
// @Tags         shop
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/shop [get]
func (h *ShopHandler) GetCatalog(c *gin.Context) {
	items, err := h.shop.GetCatalog(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to get shop catalog")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get shop catalog",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"count":      len(items),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// PurchaseRequest est le corps d'une demande d'achat
type PurchaseRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}

// Purchase godoc
// @Summary      Achat d'un article
// @Description  Débite les pièces du joueur et enregistre l'achat
// @Tags         shop
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body PurchaseRequest true "Article à acheter"
// @Success      201  {object}  models.PurchaseResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/shop/purchase [post]
func (h *ShopHandler) Purchase(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request data",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	result, err := h.shop.Purchase(c.Request.Context(), userID, req.ItemID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch err.(type) {
		case *models.NotFoundError:
			statusCode = http.StatusNotFound
		case *models.ValidationError, *models.InsufficientFundsError:
			statusCode = http.StatusBadRequest
		case *models.ItemInactiveError, *models.OutOfStockError, *models.PerUserLimitError:
			statusCode = http.StatusConflict
		}

		if statusCode == http.StatusInternalServerError {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"item_id": req.ItemID,
			}).Error("Purchase failed")
			c.JSON(statusCode, gin.H{
				"error":      "Purchase failed",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}

		c.JSON(statusCode, gin.H{
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"purchase":        result.Purchase,
		"remaining_coins": result.RemainingCoins,
		"request_id":      c.GetHeader("X-Request-ID"),
	})
}

// GetHistory godoc
// @Summary      Historique d'achats du joueur
// @Description  Récupère les achats passés, du plus récent au plus ancien
// @Tags         shop
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/v1/shop/history [get]
func (h *ShopHandler) GetHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "User ID not found",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	limit, offset := parsePagination(c)

	purchases, err := h.shop.GetHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get purchase history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get purchase history",
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases":  purchases,
		"count":      len(purchases),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
