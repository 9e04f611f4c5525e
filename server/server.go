package server

import (
	"clairity-server/cache"
	"clairity-server/confs"
	"clairity-server/db"
	"clairity-server/handlers"
	httpHandler "clairity-server/handlers/http"
	"clairity-server/mailer"
	"clairity-server/repositories"
	"clairity-server/services"
	"clairity-server/usecases"
	"clairity-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app *gin.Engine
	db  db.Database
	cfg *confs.Config
}

func NewServer(database db.Database, cfg *confs.Config) *Server {
	return &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}
}

func (s *Server) Start() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // Allow all origins for development
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories
	sensorRepo := repositories.NewSensorDataPgRepository(s.db)
	userRepo := repositories.NewUserPgRepository(s.db)

	// Verification codes live in memory; the janitor evicts stale ones.
	codes := cache.NewVerificationStore()
	codes.StartJanitor(cache.CodeTTL)

	mail := mailer.NewSMTPTransport(s.cfg)

	// Initialize use cases
	sensorUseCase := usecases.NewSensorUseCase(sensorRepo)
	accountUseCase := usecases.NewAccountUseCase(userRepo, codes, mail, s.cfg.JWTSecret)

	// WebSocket manager for the live dashboard stream
	manager := ws.NewManager()
	wsHandler := handlers.NewWSHandler(manager)

	// Initialize handlers
	sensorHandler := httpHandler.NewSensorHandler(sensorUseCase, manager)
	aqiHandler := httpHandler.NewAQIHandler()
	authHandler := httpHandler.NewAuthHandler(accountUseCase)
	userHandler := httpHandler.NewUserHandler(accountUseCase)

	// Background mail jobs
	services.NewAlertService(sensorUseCase, accountUseCase, mail, s.cfg.AlertThreshold, s.cfg.AlertInterval).Start()
	services.NewForecastService(accountUseCase, mail, s.cfg.ForecastURL, s.cfg.ForecastInterval).Start()

	authRequired := handlers.AuthMiddleware(s.cfg.JWTSecret)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		// Sensor routes
		sensors := api.Group("/sensors")
		{
			sensors.POST("", sensorHandler.CreateReading)
			sensors.GET("/latest", sensorHandler.GetLatest)
			sensors.GET("/history", sensorHandler.GetHistory)                // Raw readings in window
			sensors.GET("/history/summary", sensorHandler.GetHistorySummary) // Bucketed averages
		}

		// AQI guidance routes
		api.GET("/recommendations", aqiHandler.GetRecommendations)
		api.GET("/groups", aqiHandler.GetGroups)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/send-verification-code", authHandler.SendCode)
			auth.POST("/send-verification-code-user", authHandler.SendCodeUser) // Requires registered address
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.POST("/reset-password", authHandler.ResetPassword)

			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.Me)
			auth.PUT("/update", authRequired, authHandler.UpdateProfile)
		}

		// User management routes (admin only)
		users := api.Group("/users", authRequired, handlers.AdminOnly())
		{
			users.GET("", userHandler.GetAllUsers)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PUT("/:id/activate", userHandler.ActivateUser)
			users.PUT("/:id/deactivate", userHandler.DeactivateUser)
			users.PUT("/:id/toggle-alerts", userHandler.ToggleAlerts)
		}
	}

	s.app.GET("/ws/live", wsHandler.HandleLiveWS)

	if err := s.app.Run("0.0.0.0:" + s.cfg.Port); err != nil {
		panic(err)
	}
}
