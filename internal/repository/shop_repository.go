package repository

import (
	"context"
	"database/sql"
	"fmt"

	"progression/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type shopRepository struct {
	db *sqlx.DB
}

func NewShopRepository(db *sqlx.DB) ShopRepository {
	return &shopRepository{db: db}
}

const shopItemColumns = `
	id, name, description, category, coins_cost, icon, sort_order,
	stock_quantity, max_per_user, is_active, created_at, updated_at`

// CreateItem creates a new shop item
func (r *shopRepository) CreateItem(ctx context.Context, item *models.ShopItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO shop_items (
			id, name, description, category, coins_cost, icon, sort_order,
			stock_quantity, max_per_user, is_active, created_at, updated_at
		) VALUES (
			:id, :name, :description, :category, :coins_cost, :icon, :sort_order,
			:stock_quantity, :max_per_user, :is_active, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("failed to create shop item: %w", err)
	}

	return nil
}

// GetItem retrieves a shop item by ID
func (r *shopRepository) GetItem(ctx context.Context, id uuid.UUID) (*models.ShopItem, error) {
	query := `SELECT ` + shopItemColumns + ` FROM shop_items WHERE id = $1`

	var item models.ShopItem
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("shop item", id.String())
		}
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}

	return &item, nil
}

// ListItems retrieves the shop catalog in display order
func (r *shopRepository) ListItems(ctx context.Context, includeInactive bool) ([]models.ShopItem, error) {
	query := `SELECT ` + shopItemColumns + ` FROM shop_items`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sort_order ASC`

	var items []models.ShopItem
	err := r.db.SelectContext(ctx, &items, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}

	return items, nil
}

// Purchase executes the full purchase protocol in one transaction: lock the
// item row, then check availability, per-user limit, stock and funds in that
// order, decrement stock, debit the balance and record the purchase. Any
// failed check rolls everything back, so stock and coins only ever move
// together.
func (r *shopRepository) Purchase(ctx context.Context, userID, itemID uuid.UUID) (*models.PurchaseResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the item: concurrent purchases of the same item serialize here.
	var item models.ShopItem
	err = tx.GetContext(ctx, &item,
		`SELECT `+shopItemColumns+` FROM shop_items WHERE id = $1 FOR UPDATE`, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("shop item", itemID.String())
		}
		return nil, fmt.Errorf("failed to lock shop item: %w", err)
	}

	if !item.IsActive {
		return nil, models.NewItemInactiveError(item.Name)
	}

	// Per-user limit: cancelled purchases give the slot back.
	if item.MaxPerUser != nil {
		var owned int
		err = tx.GetContext(ctx, &owned,
			`SELECT COUNT(*) FROM purchases WHERE user_id = $1 AND item_id = $2 AND status != 'cancelled'`,
			userID, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to count user purchases: %w", err)
		}
		if owned >= *item.MaxPerUser {
			return nil, models.NewPerUserLimitError(itemID.String(), *item.MaxPerUser)
		}
	}

	// Stock: a null quantity means unlimited.
	if item.StockQuantity != nil {
		if *item.StockQuantity <= 0 {
			return nil, models.NewOutOfStockError(item.Name)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE shop_items SET stock_quantity = stock_quantity - 1 WHERE id = $1`, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	// Funds: conditional debit, the balance can never go negative.
	var remaining int64
	err = tx.GetContext(ctx, &remaining,
		`UPDATE player_stats SET coins = coins - $1 WHERE user_id = $2 AND coins >= $1 RETURNING coins`,
		item.CoinsCost, userID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to debit coins: %w", err)
		}
		var available int64
		if getErr := tx.GetContext(ctx, &available,
			`SELECT coins FROM player_stats WHERE user_id = $1`, userID); getErr != nil {
			if getErr == sql.ErrNoRows {
				return nil, models.NewNotFoundError("player", userID.String())
			}
			return nil, fmt.Errorf("failed to get player balance: %w", getErr)
		}
		return nil, models.NewInsufficientFundsError(item.CoinsCost, available)
	}

	var purchase models.PurchaseRecord
	err = tx.GetContext(ctx, &purchase, `
		INSERT INTO purchases (user_id, item_id, coins_spent, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, user_id, item_id, coins_spent, status, created_at, updated_at`,
		userID, itemID, item.CoinsCost)
	if err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	purchase.Item = &item
	return &models.PurchaseResult{
		Purchase:       &purchase,
		RemainingCoins: remaining,
	}, nil
}

// ListPurchases retrieves a player's purchase history, newest first
func (r *shopRepository) ListPurchases(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PurchaseRecord, error) {
	query := `
		SELECT id, user_id, item_id, coins_spent, status, created_at, updated_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var purchases []models.PurchaseRecord
	err := r.db.SelectContext(ctx, &purchases, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	return purchases, nil
}

// UpdatePurchaseStatus advances a purchase through its lifecycle. Moving to
// cancelled returns the unit to stock when the item tracks a quantity, the
// mirror of the decrement done at purchase time.
func (r *shopRepository) UpdatePurchaseStatus(ctx context.Context, purchaseID uuid.UUID, status models.PurchaseStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev models.PurchaseRecord
	err = tx.GetContext(ctx, &prev,
		`SELECT id, user_id, item_id, coins_spent, status, created_at, updated_at
		 FROM purchases WHERE id = $1 FOR UPDATE`, purchaseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.NewNotFoundError("purchase", purchaseID.String())
		}
		return fmt.Errorf("failed to lock purchase: %w", err)
	}

	if prev.Status == status {
		return nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE purchases SET status = $1, updated_at = NOW() WHERE id = $2`, status, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to update purchase status: %w", err)
	}

	if status == models.PurchaseCancelled {
		_, err = tx.ExecContext(ctx,
			`UPDATE shop_items SET stock_quantity = stock_quantity + 1
			 WHERE id = $1 AND stock_quantity IS NOT NULL`, prev.ItemID)
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SeedDefaults inserts the default shop catalog, skipping entries that
// already exist
func (r *shopRepository) SeedDefaults(ctx context.Context) error {
	query := `
		INSERT INTO shop_items (name, description, category, coins_cost, icon,
			sort_order, stock_quantity, max_per_user, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING`

	for _, item := range models.DefaultShopItems() {
		_, err := r.db.ExecContext(ctx, query,
			item.Name, item.Description, item.Category, item.CoinsCost, item.Icon,
			item.SortOrder, item.StockQuantity, item.MaxPerUser, item.IsActive)
		if err != nil {
			return fmt.Errorf("failed to seed shop item %q: %w", item.Name, err)
		}
	}

	return nil
}
