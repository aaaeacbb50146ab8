// internal/router/router.go
package router

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/config"
	"github.com/lookmate/lookmate-backend/internal/handlers"
	"github.com/lookmate/lookmate-backend/internal/metrics"
	"github.com/lookmate/lookmate-backend/internal/middleware"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

// Initialize wires services, handlers and routes. The returned cleanup stops
// the rate limiter workers.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, func(), error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, nil, err
	}
	m := metrics.New()

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	closetService := services.NewClosetService(db)
	lookService := services.NewLookService(db, closetService, storageService)
	publicLookService := services.NewPublicLookService(db, m)
	productService := services.NewProductService(db, closetService)
	aiService := services.NewAIService(storageService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	closetHandler := handlers.NewClosetHandler(closetService, rand.New(rand.NewSource(time.Now().UnixNano())))
	lookHandler := handlers.NewLookHandler(lookService)
	publicLookHandler := handlers.NewPublicLookHandler(publicLookService)
	productHandler := handlers.NewProductHandler(productService)
	aiHandler := handlers.NewAIHandler(aiService, m)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL, cfg.Environment == "development"))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	if cfg.Server.Metrics {
		r.Use(m.Middleware())
	}

	cleanup := func() {}
	authLimit, uploadLimit := passThrough, passThrough
	if cfg.RateLimit.Enabled {
		limits := middleware.NewRateLimits()
		cleanup = limits.Stop
		r.Use(limits.General.Middleware())
		authLimit = limits.Auth.Middleware()
		uploadLimit = limits.Upload.Middleware()
	}

	if cfg.Server.AuditLog {
		r.Use(middleware.AuditLogMiddleware(db))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	if cfg.Server.Metrics {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Identity from X-User-Email for clients without tokens
	identity := passThrough
	if cfg.Legacy.EmailAuth {
		identity = middleware.LegacyEmailAuth(userService)
	}

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := api.Group("/users")
		users.Use(identity, middleware.AuthRequired())
		{
			users.GET("/me/profile", userHandler.GetProfile)
			users.PUT("/me/profile", userHandler.UpdateProfile)
		}

		data := api.Group("/data")
		data.Use(identity)
		{
			// Public feed reads work without a session
			data.GET("/public-looks", middleware.OptionalAuth(), publicLookHandler.List)
			data.GET("/public-looks/:publicId", middleware.OptionalAuth(), publicLookHandler.Get)

			protected := data.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/closet", closetHandler.List)
				protected.POST("/closet", closetHandler.Create)
				protected.PUT("/closet/:id", closetHandler.Update)
				protected.DELETE("/closet/:id", closetHandler.Delete)

				protected.GET("/recommendation", closetHandler.Recommend)

				protected.GET("/looks", lookHandler.List)
				protected.POST("/looks", middleware.MaxUploadSize(cfg.Upload.MaxFileSize*2), lookHandler.Create)
				protected.GET("/looks/:id", lookHandler.Get)
				protected.DELETE("/looks/:id", lookHandler.Delete)

				protected.POST("/public-looks", publicLookHandler.Publish)
				protected.DELETE("/public-looks/:publicId", publicLookHandler.Unpublish)
				protected.POST("/public-looks/:publicId/like", publicLookHandler.Like)
				protected.POST("/public-looks/:publicId/bookmark", publicLookHandler.Bookmark)
			}
		}

		// Product routes
		products := api.Group("/products")
		products.Use(identity, middleware.AuthRequired())
		{
			products.GET("/similar", productHandler.Similar)
			products.POST("/preview", productHandler.Preview)
		}

		// AI routes
		ai := api.Group("/ai")
		ai.Use(identity, middleware.AuthRequired(), uploadLimit)
		{
			ai.POST("/avatar", middleware.MaxUploadSize(cfg.Upload.MaxFileSize), aiHandler.GenerateAvatar)
			ai.POST("/remove-background", middleware.MaxUploadSize(cfg.Upload.MaxFileSize), aiHandler.RemoveBackground)
			ai.POST("/try-on", aiHandler.TryOn)
		}
	}

	// Uploaded files are served from disk unless they live in S3
	if !cfg.UsesS3() {
		r.Static("/uploads", cfg.Upload.Dir)
	}

	return r, cleanup, nil
}

func passThrough(c *gin.Context) {
	c.Next()
}
