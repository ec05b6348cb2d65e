package router

import (
	"log"

	"github.com/experiencehub/backend/internal/handlers"
	"github.com/experiencehub/backend/internal/middleware"
	"github.com/experiencehub/backend/internal/models"
	"github.com/experiencehub/backend/internal/realtime"
	"github.com/experiencehub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, uploader handlers.Uploader, logger *zap.Logger) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Experience{},
		&models.Comment{},
		&models.CommentReaction{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Message{},
		&models.Notification{},
		&models.BlockedUser{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	experienceRepo := repositories.NewPostgresExperienceRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	reactionRepo := repositories.NewPostgresCommentReactionRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	followRequestRepo := repositories.NewPostgresFollowRequestRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	blockRepo := repositories.NewPostgresBlockedUserRepository(pgdb)

	// --- Realtime hub ---
	registry := realtime.NewConnectionRegistry()
	transport := realtime.NewWSTransport(logger)
	reactions := realtime.NewReactionEngine(commentRepo, reactionRepo, transport)
	hub := realtime.NewHub(registry, transport, userRepo, experienceRepo, commentRepo,
		messageRepo, reactions, middleware.ParseUserID, logger)
	e.GET("/ws/hub", realtime.ServeWS(hub, transport, logger))
	log.Println("Realtime hub configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, uploader)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Follow workflow routes
	followHandler := handlers.NewFollowHandler(followRepo, followRequestRepo, userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Comment history routes
	commentHandler := handlers.NewCommentHandler(commentRepo, experienceRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Message routes
	messageHandler := handlers.NewMessageHandler(messageRepo, uploader)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	// Block routes
	blockHandler := handlers.NewBlockHandler(blockRepo)
	blockHandler.RegisterBlockRoutes(api)
	log.Println("Block routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, followRepo, followRequestRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Operator-only surface, intentionally outside the identity middleware
	admin := e.Group("/api/v1/admin")
	followHandler.RegisterAdminRoutes(admin)
	messageHandler.RegisterAdminRoutes(admin)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
