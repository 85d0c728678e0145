package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/waveriff/waveriff/internal/cache"
	"github.com/waveriff/waveriff/internal/events"
	"github.com/waveriff/waveriff/internal/handlers"
	"github.com/waveriff/waveriff/internal/middleware"
	"github.com/waveriff/waveriff/internal/models"
	"github.com/waveriff/waveriff/internal/repositories"
	"github.com/waveriff/waveriff/internal/services"
	"github.com/waveriff/waveriff/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, stores *config.Stores, cfg *config.Config, log *slog.Logger) error {
	// AutoMigrate PostgreSQL models
	err := stores.Postgres.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Upvote{},
		&models.Review{},
		&models.CatalogItem{},
		&models.Follow{},
		&models.Community{},
		&models.CommunityMembership{},
	)
	if err != nil {
		return err
	}

	// --- Initialize repositories ---
	pgdb := stores.Postgres
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	upvoteRepo := repositories.NewPostgresUpvoteRepository(pgdb)
	reviewRepo := repositories.NewPostgresReviewRepository(pgdb)
	catalogRepo := repositories.NewPostgresCatalogRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	communityRepo := repositories.NewPostgresCommunityRepository(pgdb)
	notificationRepo := repositories.NewMongoNotificationRepository(stores.Mongo.Database("waveriff"))

	// --- Optional infrastructure ---
	var feedCache cache.FeedCache
	if stores.Redis != nil {
		feedCache = cache.NewRedisFeedCache(stores.Redis)
	}
	var publisher events.Publisher
	if stores.Nats != nil {
		publisher = events.NewNatsPublisher(stores.Nats)
	}

	// --- Initialize services ---
	notificationService := services.NewNotificationService(notificationRepo)
	engagementService := services.NewEngagementService(pgdb, notificationService, publisher, log)
	feedService := services.NewFeedService(postRepo, followRepo, communityRepo, upvoteRepo, feedCache)
	activityService := services.NewActivityService(reviewRepo, followRepo, upvoteRepo)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	feedHandler := handlers.NewFeedHandler(feedService)
	public := e.Group("/api/v1")
	feedHandler.RegisterPublicFeedRoutes(public)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, followRepo)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, communityRepo, upvoteRepo, feedCache)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, engagementService)
	commentHandler.RegisterCommentRoutes(api)

	engagementHandler := handlers.NewEngagementHandler(engagementService)
	engagementHandler.RegisterEngagementRoutes(api)

	feedHandler.RegisterFeedRoutes(api)

	activityHandler := handlers.NewActivityHandler(activityService)
	activityHandler.RegisterActivityRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationService)
	followHandler.RegisterFollowRoutes(api)

	communityHandler := handlers.NewCommunityHandler(communityRepo)
	communityHandler.RegisterCommunityRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)

	catalogHandler := handlers.NewCatalogHandler(catalogRepo, reviewRepo, nil)
	catalogHandler.RegisterCatalogRoutes(api)

	log.Info("all routes configured")
	return nil
}
