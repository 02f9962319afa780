package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"progression/internal/config"
	"progression/internal/database"
	"progression/internal/external"
	"progression/internal/handlers"
	"progression/internal/middleware"
	"progression/internal/models"
	"progression/internal/monitoring"
	"progression/internal/repository"
	"progression/internal/service"
)

func main() {
	// Initialisation du logger
	initLogger()

	// Chargement de la configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatal("Failed to load config: ", err)
	}

	// Connexion à la base de données
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	// Exécution des migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}

	// Initialisation des repositories
	repos := &repository.Repository{
		PlayerStats: repository.NewPlayerStatsRepository(db.DB),
		Achievement: repository.NewAchievementRepository(db.DB),
		Quest:       repository.NewQuestRepository(db.DB),
		Shop:        repository.NewShopRepository(db.DB),
		DailyStats:  repository.NewDailyStatsRepository(db.DB),
		Activity:    repository.NewActivityRepository(db.DB),
	}

	// Chargement des catalogues par défaut
	if err := seedCatalogs(repos); err != nil {
		logrus.Fatal("Failed to seed catalogs: ", err)
	}

	// Initialisation des services
	emitter := service.NewEventEmitter()
	ledgerService := service.NewLedgerService(repos.PlayerStats, emitter)
	achievementService := service.NewAchievementService(repos.Achievement, repos.PlayerStats, ledgerService, repos.Activity, emitter)
	questService := service.NewQuestService(repos.Quest, ledgerService, repos.Activity, emitter, cfg.Game)
	shopService := service.NewShopService(repos.Shop, repos.Activity)
	leaderboardService := service.NewLeaderboardService(repos.PlayerStats, repos.DailyStats)
	actionService := service.NewActionService(repos.PlayerStats, repos.DailyStats, ledgerService, questService, achievementService)
	callService := service.NewCallService(repos.PlayerStats, repos.DailyStats, repos.Activity, ledgerService, questService, achievementService)
	trainingService := service.NewTrainingService(repos.PlayerStats, repos.Activity, ledgerService, questService, achievementService)

	subscribeListeners(emitter, repos, achievementService)

	telephonyClient := external.NewTelephonyClient(cfg)

	// Configuration du mode Gin
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()

	// Configuration des routes
	router := setupRoutes(&routeDeps{
		cfg:          cfg,
		db:           db,
		metrics:      metrics,
		ledger:       ledgerService,
		achievements: achievementService,
		quests:       questService,
		shop:         shopService,
		leaderboard:  leaderboardService,
		actions:      actionService,
		calls:        callService,
		training:     trainingService,
		telephony:    telephonyClient,
		activityRepo: repos.Activity,
		statsRepo:    repos.PlayerStats,
	})

	// Configuration du serveur HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Démarrage du serveur en arrière-plan
	go func() {
		logrus.WithFields(logrus.Fields{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
			"env":  cfg.Server.Environment,
		}).Info("🎮 Progression Service starting...")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Expiration périodique des quêtes
	go startQuestSweep(questService, cfg.Game.QuestSweepInterval)

	// Gestion gracieuse de l'arrêt
	gracefulShutdown(server)
}

// routeDeps regroupe les dépendances du routeur
type routeDeps struct {
	cfg          *config.Config
	db           *database.DB
	metrics      *monitoring.Metrics
	ledger       service.LedgerService
	achievements service.AchievementService
	quests       service.QuestService
	shop         service.ShopService
	leaderboard  service.LeaderboardService
	actions      service.ActionService
	calls        service.CallService
	training     service.TrainingService
	telephony    external.TelephonyClientInterface
	activityRepo repository.ActivityRepository
	statsRepo    repository.PlayerStatsRepository
}

// setupRoutes configure toutes les routes du service
func setupRoutes(deps *routeDeps) *gin.Engine {
	router := gin.New()

	// Middleware globaux
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(deps.metrics.Middleware())

	// Handlers
	healthHandler := handlers.NewHealthHandler(deps.cfg, deps.db)
	playerHandler := handlers.NewPlayerHandler(deps.ledger, deps.activityRepo)
	achievementHandler := handlers.NewAchievementHandler(deps.achievements)
	questHandler := handlers.NewQuestHandler(deps.quests)
	shopHandler := handlers.NewShopHandler(deps.shop)
	leaderboardHandler := handlers.NewLeaderboardHandler(deps.leaderboard, deps.cfg)
	actionHandler := handlers.NewActionHandler(deps.actions)
	callHandler := handlers.NewCallHandler(deps.calls, deps.telephony)
	trainingHandler := handlers.NewTrainingHandler(deps.training)
	adminHandler := handlers.NewAdminHandler(deps.ledger, deps.statsRepo)

	// Routes de santé et monitoring
	router.GET(deps.cfg.Monitoring.HealthPath, healthHandler.HealthCheck)
	router.GET("/health/ready", healthHandler.Readiness)
	router.GET("/health/live", healthHandler.Liveness)
	router.GET(deps.cfg.Monitoring.MetricsPath, gin.WrapH(deps.metrics.Handler()))
	router.GET("/status", healthHandler.Status)
	router.GET("/version", healthHandler.Version)
	router.GET("/ping", healthHandler.Ping)

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(deps.cfg.RateLimit))
	{
		// Routes protégées (authentification JWT requise)
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(deps.cfg.Auth.JWTSecret))
		{
			player := protected.Group("/player")
			{
				player.GET("/summary", playerHandler.GetSummary)
				player.GET("/transactions", playerHandler.GetTransactions)
				player.GET("/activity", playerHandler.GetActivity)
			}

			protected.GET("/achievements", achievementHandler.GetProgress)
			protected.POST("/achievements/check", achievementHandler.CheckAchievements)

			protected.GET("/quests", questHandler.GetOpenQuests)

			shop := protected.Group("/shop")
			{
				shop.GET("", shopHandler.GetCatalog)
				shop.POST("/purchase", shopHandler.Purchase)
				shop.GET("/history", shopHandler.GetHistory)
			}

			leaderboard := protected.Group("/leaderboard")
			{
				leaderboard.GET("", leaderboardHandler.GetRanking)
				leaderboard.GET("/me", leaderboardHandler.GetRankProgress)
				leaderboard.GET("/neighbors", leaderboardHandler.GetNeighbors)
				leaderboard.GET("/top", leaderboardHandler.GetTopPerformers)
			}

			protected.POST("/actions", actionHandler.RecordAction)

			calls := protected.Group("/calls")
			{
				calls.POST("/analyze", callHandler.AnalyzeCall)
				calls.POST("/import/:externalId", callHandler.ImportCall)
			}

			training := protected.Group("/training")
			{
				training.GET("", trainingHandler.GetQuestions)
				training.POST("/answer", trainingHandler.SubmitAnswer)
			}

			// Routes admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole("admin", "superuser"))
			{
				admin.GET("/players", adminHandler.ListPlayers)
				admin.POST("/award", adminHandler.AwardXP)
			}
		}
	}

	// Routes de debug (développement seulement)
	if deps.cfg.Server.Debug {
		debug := router.Group("/debug")
		{
			debug.GET("/database", healthHandler.DatabaseStats)
		}
	}

	return router
}

// seedCatalogs charge les catalogues par défaut au démarrage.
// Chaque seed est idempotent : les entrées existantes sont conservées.
func seedCatalogs(repos *repository.Repository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repos.Achievement.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("achievements: %w", err)
	}
	if err := repos.Quest.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("quests: %w", err)
	}
	if err := repos.Shop.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("shop items: %w", err)
	}
	return nil
}

// subscribeListeners branche les réactions transverses aux événements de jeu.
// Les listeners tournent après commit et ne font jamais échouer l'opération
// d'origine.
func subscribeListeners(emitter *service.EventEmitter, repos *repository.Repository, achievements service.AchievementService) {
	emitter.Subscribe(func(ctx context.Context, event service.GameEvent) {
		if event.Kind != service.EventLeveledUp {
			return
		}

		activity := &models.Activity{
			UserID:  event.UserID,
			Kind:    models.ActivityLevelUp,
			Message: fmt.Sprintf("Reached level %d", event.NewLevel),
		}
		if err := repos.Activity.Insert(ctx, activity); err != nil {
			logrus.WithError(err).WithField("user_id", event.UserID).Warn("Failed to record level-up activity")
		}

		// Les achievements de palier de niveau dépendent de ce compteur.
		if _, err := achievements.CheckAchievements(ctx, event.UserID); err != nil {
			logrus.WithError(err).WithField("user_id", event.UserID).Warn("Failed to check achievements after level up")
		}
	})
}

// startQuestSweep expire périodiquement les templates de quêtes obsolètes
func startQuestSweep(quests service.QuestService, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := quests.Sweep(ctx, time.Now()); err != nil {
			logrus.WithError(err).Error("Failed to sweep expired quests")
		}
		cancel()
	}
}

// initLogger initialise le logger global
func initLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	// Niveau de log selon l'environnement
	if os.Getenv("ENVIRONMENT") == "production" {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logrus.WithField("service", "progression").Info("Logger initialized")
}

// gracefulShutdown gère l'arrêt gracieux du serveur
func gracefulShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logrus.Info("🛑 Progression Service shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Error("Progression service forced to shutdown:", err)
	}

	logrus.Info("✅ Progression Service stopped")
}
