package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"progression/internal/config"
)

// DB représente la connection à la base de données
type DB struct {
	*sqlx.DB
	Config *config.DatabaseConfig
}

// NewConnection crée une nouvelle connection à la base de données
func NewConnection(cfg config.DatabaseConfig) (*DB, error) {
	// Construction de l'URL de connection
	dsn := cfg.GetDatabaseURL()

	// connection à la base de données
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configuration de la pool de connections
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	// Test de la connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Name,
		"service":  "progression",
	}).Info("Connected to PostgreSQL database")

	return &DB{
		DB:     db,
		Config: &cfg,
	}, nil
}

// Close ferme la connection à la base de données
func (db *DB) Close() error {
	if db.DB != nil {
		logrus.Info("Closing progression database connection")
		return db.DB.Close()
	}
	return nil
}

// HealthCheck vérifie l'état de la base de données
func (db *DB) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("progression database health check failed: %w", err)
	}

	return nil
}

// RunMigrations exécute les migrations de base de données
func RunMigrations(db *DB) error {
	logrus.Info("Running progression database migrations...")

	migrations := []string{
		createPlayerStatsTable,
		createXPTransactionsTable,
		createAchievementsTable,
		createPlayerAchievementsTable,
		createQuestsTable,
		createPlayerQuestsTable,
		createShopItemsTable,
		createPurchasesTable,
		createDailyUserStatsTable,
		createActivitiesTable,
		createIndexes,
		createTriggers,
	}

	for i, migration := range migrations {
		logrus.WithField("migration", i+1).Debug("Executing migration")

		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}

	logrus.Info("Progression database migrations completed successfully")
	return nil
}

// Migrations SQL
const createPlayerStatsTable = `
CREATE TABLE IF NOT EXISTS player_stats (
    user_id UUID PRIMARY KEY,
    level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
    xp BIGINT NOT NULL DEFAULT 0 CHECK (xp >= 0),
    coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
    calls_completed BIGINT NOT NULL DEFAULT 0,
    meetings_completed BIGINT NOT NULL DEFAULT 0,
    training_sessions_completed BIGINT NOT NULL DEFAULT 0,
    deals_closed BIGINT NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    last_activity_date DATE,
    total_pipeline_value BIGINT NOT NULL DEFAULT 0,
    objection_handling_score INTEGER NOT NULL DEFAULT 0,
    rapport_building_score INTEGER NOT NULL DEFAULT 0,
    discovery_score INTEGER NOT NULL DEFAULT 0,
    closing_score INTEGER NOT NULL DEFAULT 0,
    value_proposition_score INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createXPTransactionsTable = `
CREATE TABLE IF NOT EXISTS xp_transactions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES player_stats(user_id) ON DELETE CASCADE,
    amount BIGINT NOT NULL,
    reason VARCHAR(255) NOT NULL,
    source_kind VARCHAR(30) NOT NULL CHECK (source_kind IN ('call_analysis', 'training', 'achievement', 'quest', 'manual')),
    source_id VARCHAR(100),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createAchievementsTable = `
CREATE TABLE IF NOT EXISTS achievements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    slug VARCHAR(50) UNIQUE NOT NULL,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category VARCHAR(20) NOT NULL CHECK (category IN ('calls', 'meetings', 'training', 'streak', 'milestone', 'pipeline')),
    rarity VARCHAR(20) NOT NULL DEFAULT 'common' CHECK (rarity IN ('common', 'uncommon', 'rare', 'epic', 'legendary')),
    requirement_field VARCHAR(40) NOT NULL,
    requirement_value BIGINT NOT NULL CHECK (requirement_value > 0),
    xp_reward BIGINT NOT NULL DEFAULT 0,
    coins_reward BIGINT NOT NULL DEFAULT 0,
    icon VARCHAR(50),
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createPlayerAchievementsTable = `
CREATE TABLE IF NOT EXISTS player_achievements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES player_stats(user_id) ON DELETE CASCADE,
    achievement_id UUID NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
    reward_granted BOOLEAN NOT NULL DEFAULT false,
    unlocked_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, achievement_id)
);`

const createQuestsTable = `
CREATE TABLE IF NOT EXISTS quests (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    action_kind VARCHAR(30) NOT NULL,
    target_amount BIGINT NOT NULL CHECK (target_amount > 0),
    xp_reward BIGINT NOT NULL DEFAULT 0,
    coins_reward BIGINT NOT NULL DEFAULT 0,
    difficulty INTEGER NOT NULL DEFAULT 1,
    type VARCHAR(20) NOT NULL CHECK (type IN ('daily', 'weekly', 'monthly', 'milestone')),
    expires_at TIMESTAMP WITH TIME ZONE,
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createPlayerQuestsTable = `
CREATE TABLE IF NOT EXISTS player_quests (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES player_stats(user_id) ON DELETE CASCADE,
    quest_id UUID NOT NULL REFERENCES quests(id) ON DELETE CASCADE,
    progress BIGINT NOT NULL DEFAULT 0 CHECK (progress >= 0),
    window_start TIMESTAMP WITH TIME ZONE NOT NULL,
    assigned_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    completed_at TIMESTAMP WITH TIME ZONE,
    UNIQUE (user_id, quest_id, window_start)
);`

const createShopItemsTable = `
CREATE TABLE IF NOT EXISTS shop_items (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(100) UNIQUE NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category VARCHAR(20) NOT NULL CHECK (category IN ('reward', 'power_up', 'subscription', 'cosmetic')),
    coins_cost BIGINT NOT NULL CHECK (coins_cost > 0),
    icon VARCHAR(50) NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    stock_quantity INTEGER CHECK (stock_quantity >= 0),
    max_per_user INTEGER CHECK (max_per_user > 0),
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createPurchasesTable = `
CREATE TABLE IF NOT EXISTS purchases (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES player_stats(user_id) ON DELETE CASCADE,
    item_id UUID NOT NULL REFERENCES shop_items(id),
    coins_spent BIGINT NOT NULL CHECK (coins_spent > 0),
    status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'fulfilled', 'cancelled')),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createDailyUserStatsTable = `
CREATE TABLE IF NOT EXISTS daily_user_stats (
    user_id UUID NOT NULL REFERENCES player_stats(user_id) ON DELETE CASCADE,
    day DATE NOT NULL,
    xp BIGINT NOT NULL DEFAULT 0,
    calls BIGINT NOT NULL DEFAULT 0,
    meetings BIGINT NOT NULL DEFAULT 0,
    deals BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, day)
);`

const createActivitiesTable = `
CREATE TABLE IF NOT EXISTS activities (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES player_stats(user_id) ON DELETE CASCADE,
    kind VARCHAR(30) NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    xp_gained BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

const createIndexes = `
-- Index pour optimiser les requêtes
CREATE INDEX IF NOT EXISTS idx_xp_transactions_user_id ON xp_transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_xp_transactions_created_at ON xp_transactions(created_at);
CREATE INDEX IF NOT EXISTS idx_xp_transactions_source ON xp_transactions(source_kind, source_id);

CREATE INDEX IF NOT EXISTS idx_player_achievements_user_id ON player_achievements(user_id);
CREATE INDEX IF NOT EXISTS idx_player_achievements_pending_reward ON player_achievements(user_id) WHERE NOT reward_granted;

CREATE INDEX IF NOT EXISTS idx_quests_type_active ON quests(type, is_active);
CREATE INDEX IF NOT EXISTS idx_quests_expires_at ON quests(expires_at);

CREATE INDEX IF NOT EXISTS idx_player_quests_user_id ON player_quests(user_id);
CREATE INDEX IF NOT EXISTS idx_player_quests_open ON player_quests(user_id) WHERE completed_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_purchases_user_id ON purchases(user_id);
CREATE INDEX IF NOT EXISTS idx_purchases_item_id ON purchases(item_id);

CREATE INDEX IF NOT EXISTS idx_daily_user_stats_day ON daily_user_stats(day);

CREATE INDEX IF NOT EXISTS idx_activities_user_id ON activities(user_id);
CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at);
`

const createTriggers = `
-- Trigger pour mettre à jour updated_at automatiquement
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = CURRENT_TIMESTAMP;
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_player_stats_updated_at ON player_stats;
CREATE TRIGGER update_player_stats_updated_at
    BEFORE UPDATE ON player_stats
    FOR EACH ROW EXECUTE FUNCTION update_updated_at_column();

DROP TRIGGER IF EXISTS update_shop_items_updated_at ON shop_items;
CREATE TRIGGER update_shop_items_updated_at
    BEFORE UPDATE ON shop_items
    FOR EACH ROW EXECUTE FUNCTION update_updated_at_column();

DROP TRIGGER IF EXISTS update_purchases_updated_at ON purchases;
CREATE TRIGGER update_purchases_updated_at
    BEFORE UPDATE ON purchases
    FOR EACH ROW EXECUTE FUNCTION update_updated_at_column();
`
