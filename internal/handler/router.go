package handler

import (
	"fmt"
	"net/http"

	"chronicles/backend/internal/auth"
	"chronicles/backend/internal/i18n"
	"chronicles/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions configures the middleware around the API.
type RouterOptions struct {
	Log            *logrus.Logger
	Locales        *i18n.Locales
	Limiter        *auth.Limiter
	AuthRateBurst  int
	AuthRatePerSec float64
}

// NewRouter wires every route onto a fresh engine. Init must have been called.
func NewRouter(opts RouterOptions, middleware ...gin.HandlerFunc) *gin.Engine {
	if opts.Locales == nil {
		opts.Locales = i18n.NewLocales(nil)
	}
	if opts.Log == nil {
		opts.Log = logger.Log
	}

	router := gin.New()
	router.Use(recovery(opts.Log))
	router.Use(middleware...)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	apiV1.Use(i18n.Middleware(opts.Locales))
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		authRoutes.Use(auth.RateLimitMiddleware(opts.Limiter, "auth", opts.AuthRateBurst, opts.AuthRatePerSec))
		{
			authRoutes.POST("/register", RegisterUser)
			authRoutes.POST("/login", LoginUser)
			authRoutes.POST("/reset_password_request", RequestPasswordReset)
			authRoutes.POST("/reset_password/:token", ResetPassword)
		}

		// Public profile routes, personalised when a token is sent
		profileRoutes := apiV1.Group("/users")
		profileRoutes.Use(auth.OptionalAuthMiddleware(), auth.LastSeenMiddleware(svc.Users))
		{
			profileRoutes.GET("/:username", GetUserByUsername)
			profileRoutes.GET("/:username/posts", GetUserPosts)
			profileRoutes.GET("/:username/followers", GetFollowers)
			profileRoutes.GET("/:username/following", GetFollowing)
		}

		protected := apiV1.Group("")
		protected.Use(auth.AuthMiddleware(), auth.LastSeenMiddleware(svc.Users))

		// User routes (protected)
		userRoutes := protected.Group("/users")
		{
			userRoutes.GET("", SearchUsers)
			userRoutes.GET("/me", GetMe)
			userRoutes.PUT("/me", UpdateMe)
			userRoutes.POST("/:username/follow", FollowUser)
			userRoutes.POST("/:username/unfollow", UnfollowUser)
		}

		// Post routes (protected)
		postRoutes := protected.Group("/posts")
		{
			postRoutes.GET("/feed", GetFeed)
			postRoutes.POST("", CreatePost)
			postRoutes.GET("/explore", ExplorePosts)
			postRoutes.GET("/search", SearchPosts)
		}

		protected.POST("/translate", TranslateText)
		protected.GET("/feed/stream", StreamFeed)
	}

	return router
}

// recovery turns a panicking handler into a 500 and reports it through log.
func recovery(log *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		log.WithFields(logrus.Fields{
			"panic":           fmt.Sprint(err),
			"http.req.method": c.Request.Method,
			"http.req.path":   c.Request.URL.Path,
		}).Error("request panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
