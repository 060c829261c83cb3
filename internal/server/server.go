package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"instaclone/internal/config"
	"instaclone/internal/handler"
	"instaclone/internal/middleware"
	"instaclone/internal/repository"
	"instaclone/internal/service"
	"instaclone/pkg/storage"
)

type Server struct {
	engine *gin.Engine
}

func NewServer(cfg *config.Config, db *mongo.Database, mediaStorage storage.MediaStorage, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, postRepo, redisClient, cfg.JWTSecret, cfg.TokenTTL, cfg.RateLimitLogin)
	authHandler := handler.NewAuthHandler(authSvc)

	userSvc := service.NewUserService(userRepo, postRepo, mediaStorage, cfg.CloudinaryUploadFolder)
	userHandler := handler.NewUserHandler(userSvc)

	notificationSvc := service.NewNotificationService(notificationRepo, userRepo)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	postSvc := service.NewPostService(postRepo, userRepo, messageRepo, notificationSvc, mediaStorage, cfg.CloudinaryUploadFolder)
	postHandler := handler.NewPostHandler(postSvc)

	storySvc := service.NewStoryService(storyRepo, userRepo, mediaStorage, cfg.CloudinaryUploadFolder)
	storyHandler := handler.NewStoryHandler(storySvc)

	messageSvc := service.NewMessageService(messageRepo, userRepo)
	messageHandler := handler.NewMessageHandler(messageSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)

		// User routes
		protected.GET("/users/search", userHandler.Search)
		protected.PUT("/users/profile", userHandler.UpdateProfile)
		protected.POST("/users/:user_id/follow", userHandler.Follow)
		protected.DELETE("/users/:user_id/follow", userHandler.Unfollow)

		// Post routes
		protected.GET("/posts/feed", postHandler.Feed)
		protected.POST("/posts", postHandler.Create)
		protected.POST("/posts/:post_id/like", postHandler.Like)
		protected.DELETE("/posts/:post_id/like", postHandler.Unlike)
		protected.POST("/posts/:post_id/comments", postHandler.AddComment)
		protected.DELETE("/posts/:post_id", postHandler.Delete)
		protected.POST("/posts/:post_id/share", postHandler.Share)

		// Story routes
		protected.GET("/stories", storyHandler.List)
		protected.POST("/stories", storyHandler.Create)
		protected.POST("/stories/:story_id/view", storyHandler.RecordView)
		protected.GET("/stories/:story_id/views", storyHandler.Views)

		// Message routes
		protected.GET("/messages/conversations", messageHandler.Conversations)
		protected.GET("/messages/:user_id", messageHandler.Thread)
		protected.POST("/messages/:user_id", messageHandler.Send)

		// Notification routes
		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:notification_id/read", notificationHandler.MarkRead)
	}

	return &Server{engine: router}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
