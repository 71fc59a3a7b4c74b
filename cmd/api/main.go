package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/legalgames-api/internal/config"
	"github.com/yourusername/legalgames-api/internal/handler"
	"github.com/yourusername/legalgames-api/internal/middleware"
	pgRepo "github.com/yourusername/legalgames-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/legalgames-api/internal/repository/redis"
	"github.com/yourusername/legalgames-api/internal/service"
	"github.com/yourusername/legalgames-api/pkg/auth"
	"github.com/yourusername/legalgames-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), isProduction)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Database.MigrationsDir); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisCtx, redisCancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
	redisClient, err := database.NewRedisClient(redisCtx, cfg.Redis)
	redisCancel()
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	txManager := pgRepo.NewTxManager(db)
	roomRepo := pgRepo.NewRoomRepo(db)
	moveRepo := pgRepo.NewMoveRepo(db)
	matchRepo := pgRepo.NewMatchRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	leaderboardRepo := pgRepo.NewLeaderboardRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)
	sessionRepo := pgRepo.NewSessionRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}
	presenceRepo, err := redisRepo.NewPresenceRepo(redisClient, cfg.Game.PresenceWindow)
	if err != nil {
		log.Printf("Failed to initialize PresenceRepo: %v", err)
		os.Exit(1)
	}

	// Токены выпускает внешний провайдер идентификации, здесь они только проверяются
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, cacheRepo, txManager, cfg.Game.LeaderboardCacheTTL)
	roomService := service.NewRoomService(roomRepo, presenceRepo, txManager, leaderboardService, nil, cfg.Game)
	moveLog := service.NewMoveLog(roomRepo, moveRepo, presenceRepo, txManager)
	turnCoordinator := service.NewTurnCoordinator(roomRepo, moveLog, txManager)
	matchService := service.NewMatchService(matchRepo, questionRepo, txManager, leaderboardService, cfg.Game)
	questionService := service.NewQuestionService(questionRepo, gameRepo)
	gameService := service.NewGameService(gameRepo, questionRepo, sessionRepo, txManager, leaderboardService)

	handlers := routerHandlers{
		rooms:       handler.NewRoomHandler(roomService, moveLog, turnCoordinator, cfg.Game.MovePageSize),
		matches:     handler.NewMatchHandler(matchService),
		leaderboard: handler.NewLeaderboardHandler(leaderboardService),
		questions:   handler.NewQuestionHandler(questionService),
		games:       handler.NewGameHandler(gameService),
		health:      handler.NewHealthHandler(db, redisClient),
	}

	router := newRouter(cfg, isProduction, handlers,
		middleware.NewAuthMiddleware(jwtService),
		middleware.NewRateLimiter(redisClient),
	)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	if sqlDB, err := database.GetSQLDB(db); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	log.Println("Server exited properly")
}
