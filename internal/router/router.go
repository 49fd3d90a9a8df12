package router

import (
	"context"
	"log"

	"github.com/connectify/backend/internal/handlers"
	"github.com/connectify/backend/internal/middleware"
	"github.com/connectify/backend/internal/notify"
	"github.com/connectify/backend/internal/repositories"
	"github.com/connectify/backend/internal/ws"
	"github.com/connectify/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, hub *ws.Hub) {
	db := mgClient.Database(cfg.MongoDB)

	if err := repositories.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured for all collections.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded media is served statically
	e.Static("/uploads", cfg.UploadDir)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	chatRepo := repositories.NewMongoChatRepository(db)
	messageRepo := repositories.NewMongoMessageRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	notifier := notify.New(notificationRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public routes ---
	public := e.Group("/api")
	userHandler := handlers.NewUserHandler(userRepo, notifier)
	userHandler.RegisterPublicUserRoutes(public)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, notifier)
	postHandler.RegisterPublicPostRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	messageHandler := handlers.NewMessageHandler(messageRepo, chatRepo)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)
	uploadHandler.RegisterUploadRoutes(api)
	log.Println("Upload routes configured.")

	// --- Real-time relay ---
	wsHandler := ws.NewHandler(hub)
	e.GET("/ws", wsHandler.Serve)
	log.Println("Websocket relay configured.")

	log.Println("All routes configured.")
}
