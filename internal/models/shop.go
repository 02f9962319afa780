package models

import (
	"time"

	"github.com/google/uuid"
)

// ShopCategory est la catégorie d'un article de boutique.
type ShopCategory string

const (
	ShopReward       ShopCategory = "reward"
	ShopPowerUp      ShopCategory = "power_up"
	ShopSubscription ShopCategory = "subscription"
	ShopCosmetic     ShopCategory = "cosmetic"
)

// ShopItem est un article du catalogue de la boutique.
// Un stockQuantity nul signifie stock illimité ; un maxPerUser nul
// signifie pas de limite par joueur.
type ShopItem struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	Category    ShopCategory `json:"category" db:"category"`
	CoinsCost   int64        `json:"coins_cost" db:"coins_cost"`
	Icon        string       `json:"icon" db:"icon"`
	SortOrder   int          `json:"sort_order" db:"sort_order"`

	StockQuantity *int `json:"stock_quantity,omitempty" db:"stock_quantity"`
	MaxPerUser    *int `json:"max_per_user,omitempty" db:"max_per_user"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate vérifie la cohérence d'un article.
func (s *ShopItem) Validate() error {
	if s.Name == "" {
		return NewValidationError("shop item name is required")
	}
	if s.CoinsCost <= 0 {
		return NewValidationError("shop item cost must be positive")
	}
	if s.StockQuantity != nil && *s.StockQuantity < 0 {
		return NewValidationError("shop item stock cannot be negative")
	}
	if s.MaxPerUser != nil && *s.MaxPerUser <= 0 {
		return NewValidationError("shop item per-user limit must be positive")
	}
	return nil
}

// PurchaseStatus est l'état d'un achat dans son cycle de vie.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseFulfilled PurchaseStatus = "fulfilled"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// PurchaseRecord est l'enregistrement d'un achat en boutique.
// coinsSpent fige le prix au moment de l'achat.
type PurchaseRecord struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	UserID     uuid.UUID      `json:"user_id" db:"user_id"`
	ItemID     uuid.UUID      `json:"item_id" db:"item_id"`
	CoinsSpent int64          `json:"coins_spent" db:"coins_spent"`
	Status     PurchaseStatus `json:"status" db:"status"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`

	// Chargé séparément
	Item *ShopItem `json:"item,omitempty" db:"-"`
}

// PurchaseResult est le résultat d'un achat réussi.
type PurchaseResult struct {
	Purchase       *PurchaseRecord `json:"purchase"`
	RemainingCoins int64           `json:"remaining_coins"`
}
