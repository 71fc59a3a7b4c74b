package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/legalgames-api/internal/config"
	"github.com/yourusername/legalgames-api/internal/handler"
	"github.com/yourusername/legalgames-api/internal/middleware"
)

type routerHandlers struct {
	rooms       *handler.RoomHandler
	matches     *handler.MatchHandler
	leaderboard *handler.LeaderboardHandler
	questions   *handler.QuestionHandler
	games       *handler.GameHandler
	health      *handler.HealthHandler
}

// newRouter собирает маршруты API
func newRouter(
	cfg *config.Config,
	isProduction bool,
	h routerHandlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// В production не доверяем прокси-заголовкам (защита от IP spoofing)
	trusted := []string{"127.0.0.1", "::1"}
	if isProduction {
		trusted = nil
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// limit возвращает ограничитель по пользователю или пустой middleware, если лимиты выключены
	limit := func(prefix string, maxRequests int) gin.HandlerFunc {
		if !cfg.RateLimit.Enabled || maxRequests <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return rateLimiter.LimitByUser(middleware.NewRateLimitConfig(prefix, maxRequests, cfg.RateLimit.Window))
	}

	// limitByIP ограничивает публичные маршруты, где пользователя ещё нет
	limitByIP := func(prefix string, maxRequests int) gin.HandlerFunc {
		if !cfg.RateLimit.Enabled || maxRequests <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return rateLimiter.Limit(middleware.NewRateLimitConfig(prefix, maxRequests, cfg.RateLimit.Window))
	}

	router.GET("/health", h.health.Check)

	api := router.Group("/api")
	{
		// Рейтинг: чтение публичное, управление только для сотрудников
		api.GET("/leaderboard", h.leaderboard.GetLeaderboard)
		leaderboard := api.Group("/leaderboard")
		leaderboard.Use(authMiddleware.RequireAuth())
		{
			leaderboard.GET("/me", h.leaderboard.GetMyEntry)

			staff := leaderboard.Group("")
			staff.Use(authMiddleware.StaffOnly())
			{
				staff.POST("/recompute", h.leaderboard.Recompute)
				staff.GET("/export", h.leaderboard.ExportLeaderboard)
			}
		}

		// Комнаты
		rooms := api.Group("/rooms")
		rooms.Use(authMiddleware.RequireAuth())
		{
			rooms.GET("", h.rooms.ListRooms)
			rooms.POST("", limit("room_create", cfg.RateLimit.RoomCreate), h.rooms.CreateRoom)
			rooms.POST("/join", limit("room_join", cfg.RateLimit.RoomJoin), h.rooms.JoinRoom)

			room := rooms.Group("/:code")
			room.Use(middleware.ExtractRoomCode("code", "roomCode"))
			{
				room.GET("", h.rooms.GetRoom)
				room.PUT("/role", h.rooms.AssignRole)
				room.GET("/moves", h.rooms.ListMoves)
				room.POST("/moves", h.rooms.RecordMove)
				room.POST("/turn", h.rooms.AdvanceTurn)
				room.POST("/play", h.rooms.PlayTurn)
				room.POST("/complete", h.rooms.CompleteRoom)
			}
		}

		// Дуэли
		matches := api.Group("/matches")
		matches.Use(authMiddleware.RequireAuth())
		{
			matches.POST("/queue", limit("match_queue", cfg.RateLimit.MatchQueue), h.matches.Enqueue)

			match := matches.Group("/:id")
			match.Use(middleware.ExtractUUIDParam("id", "matchID"))
			{
				match.GET("", h.matches.GetMatch)
				match.POST("/answers", h.matches.SubmitAnswer)
				match.POST("/advance", h.matches.AdvanceQuestion)
				match.POST("/cancel", h.matches.CancelSearch)
			}
		}

		// Одиночные игры: каталог публичный, прохождение только для вошедших
		api.GET("/games", limitByIP("game_catalog", cfg.RateLimit.GameCatalog), h.games.ListGames)
		api.POST("/games", authMiddleware.RequireAuth(), authMiddleware.StaffOnly(), h.games.CreateGame)
		game := api.Group("/games/:id")
		game.Use(middleware.ExtractUintParam("id", "gameID"))
		{
			game.GET("", limitByIP("game_catalog", cfg.RateLimit.GameCatalog), h.games.GetGame)
			game.POST("/sessions", authMiddleware.RequireAuth(), limit("session_start", cfg.RateLimit.SessionStart), h.games.StartSession)
		}

		sessions := api.Group("/sessions/:id")
		sessions.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "sessionID"))
		{
			sessions.GET("", h.games.GetSession)
			sessions.POST("/answers", h.games.AnswerQuestion)
		}

		// Банк вопросов
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.StaffOnly())
		{
			questions.POST("", h.questions.CreateQuestion)
		}
	}

	return router
}
