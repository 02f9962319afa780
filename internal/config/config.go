package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config représente la configuration du service Progression
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Telephony  TelephonyConfig  `mapstructure:"telephony"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Game       GameConfig       `mapstructure:"game"`
}

// ServerConfig configuration du serveur HTTP
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	Environment  string        `mapstructure:"environment"`
	Debug        bool          `mapstructure:"debug"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig configuration PostgreSQL
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// AuthConfig configuration de l'authentification JWT
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// TelephonyConfig configuration du fournisseur de téléphonie
type TelephonyConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIID    string        `mapstructure:"api_id"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig configuration rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	BurstSize         int           `mapstructure:"burst_size"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// MonitoringConfig configuration monitoring
type MonitoringConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// GameConfig configuration spécifique à la gamification
type GameConfig struct {
	DailyQuestCount      int           `mapstructure:"daily_quest_count"`
	WeeklyQuestCount     int           `mapstructure:"weekly_quest_count"`
	MonthlyQuestCount    int           `mapstructure:"monthly_quest_count"`
	QuestSweepInterval   time.Duration `mapstructure:"quest_sweep_interval"`
	LeaderboardPageSize  int           `mapstructure:"leaderboard_page_size"`
	TopPerformersSize    int           `mapstructure:"top_performers_size"`
	ActivityFeedPageSize int           `mapstructure:"activity_feed_page_size"`
}

// LoadConfig charge la configuration
func LoadConfig() (*Config, error) {
	// Configuration par défaut
	config := &Config{
		Server: ServerConfig{
			Port:         8084,
			Host:         "0.0.0.0",
			Environment:  "development",
			Debug:        true,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "progression_user",
			Password:     "progression_password",
			Name:         "progression_db",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Auth: AuthConfig{
			JWTSecret: "your-super-secret-jwt-key-change-in-production-minimum-64-characters",
		},
		Telephony: TelephonyConfig{
			BaseURL: "https://api.aircall.io/v1",
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 100,
			BurstSize:         20,
			CleanupInterval:   5 * time.Minute,
		},
		Monitoring: MonitoringConfig{
			MetricsPath: "/metrics",
			HealthPath:  "/health",
		},
		Game: GameConfig{
			DailyQuestCount:      3,
			WeeklyQuestCount:     1,
			MonthlyQuestCount:    1,
			QuestSweepInterval:   15 * time.Minute,
			LeaderboardPageSize:  50,
			TopPerformersSize:    5,
			ActivityFeedPageSize: 20,
		},
	}

	// Charger depuis les variables d'environnement
	loadFromEnv(config)

	// Tentative de chargement depuis fichier config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/progression/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("error unmarshalling config: %w", err)
		}
	}

	// Validation
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadFromEnv charge depuis les variables d'environnement
func loadFromEnv(config *Config) {
	// Server
	if port := os.Getenv("PROGRESSION_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PROGRESSION_HOST"); host != "" {
		config.Server.Host = host
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		config.Server.Environment = env
	}

	// Database
	if host := os.Getenv("PROGRESSION_DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("PROGRESSION_DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Database.Port = p
		}
	}
	if user := os.Getenv("PROGRESSION_DB_USER"); user != "" {
		config.Database.User = user
	}
	if password := os.Getenv("PROGRESSION_DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if name := os.Getenv("PROGRESSION_DB_NAME"); name != "" {
		config.Database.Name = name
	}

	// Auth
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	// Telephony
	if url := os.Getenv("TELEPHONY_BASE_URL"); url != "" {
		config.Telephony.BaseURL = url
	}
	if id := os.Getenv("TELEPHONY_API_ID"); id != "" {
		config.Telephony.APIID = id
	}
	if token := os.Getenv("TELEPHONY_API_TOKEN"); token != "" {
		config.Telephony.APIToken = token
	}
}

// validateConfig valide la configuration
func validateConfig(config *Config) error {
	// Validation serveur
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validation base de données
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if config.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	// Validation Auth
	if len(config.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters long")
	}

	// Validation Game
	if config.Game.DailyQuestCount < 1 {
		return fmt.Errorf("daily quest count must be at least 1")
	}
	if config.Game.LeaderboardPageSize < 1 {
		return fmt.Errorf("leaderboard page size must be at least 1")
	}

	return nil
}

// GetDatabaseURL retourne l'URL de connection PostgreSQL
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}
