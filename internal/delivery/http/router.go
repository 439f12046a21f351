package http

import (
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InactiveAllowedPaths are reachable by deactivated accounts.
var InactiveAllowedPaths = []string{
	"/api/v1/account/reactivate",
	"/api/v1/account/status",
	"/api/v1/account",
}

type Handlers struct {
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Profile  *handler.ProfileHandler
	Chat     *handler.ChatHandler
	Discover *handler.DiscoverHandler
	Match    *handler.MatchHandler
	Block    *handler.BlockHandler
}

type Limiters struct {
	Chat     ratelimit.Limiter
	AuthIP   ratelimit.Limiter
	Messages ratelimit.Limiter
}

type Router struct {
	handlers       Handlers
	limiters       Limiters
	authMiddleware *middleware.AuthMiddleware
	corsOrigins    []string
	// uploadsDir is served under /uploads when photos are stored locally.
	uploadsDir string
	logger     *zap.Logger
}

func NewRouter(
	handlers Handlers,
	limiters Limiters,
	authMiddleware *middleware.AuthMiddleware,
	corsOrigins []string,
	uploadsDir string,
	logger *zap.Logger,
) *Router {
	return &Router{
		handlers:       handlers,
		limiters:       limiters,
		authMiddleware: authMiddleware,
		corsOrigins:    corsOrigins,
		uploadsDir:     uploadsDir,
		logger:         logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(r.logger),
		middleware.RequestLogger(r.logger),
		middleware.CORS(r.corsOrigins),
	)

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	if r.uploadsDir != "" {
		router.Static("/uploads", r.uploadsDir)
	}

	requireAuth := r.authMiddleware.RequireAuth()
	h := r.handlers

	v1 := router.Group("/api/v1")
	{
		// Auth routes (public, limited per client IP)
		auth := v1.Group("/auth")
		{
			ipLimit := middleware.RateLimit(r.limiters.AuthIP, middleware.ByIP, r.logger)
			auth.POST("/signup", ipLimit, h.Auth.Signup)
			auth.POST("/login", ipLimit, h.Auth.Login)
			auth.POST("/logout-all", requireAuth, h.Auth.LogoutAll)
		}

		protected := v1.Group("")
		protected.Use(requireAuth)
		{
			account := protected.Group("/account")
			{
				account.GET("/status", h.Account.Status)
				account.POST("/deactivate", h.Account.Deactivate)
				account.POST("/reactivate", h.Account.Reactivate)
				account.DELETE("", h.Account.Delete)
			}

			profile := protected.Group("/profile")
			{
				profile.GET("/me", h.Profile.GetMyProfile)
				profile.POST("/me/setup", h.Profile.SetupProfile)
				profile.PUT("/me", h.Profile.UpdateMyProfile)
				profile.PUT("/me/profile", h.Profile.UpdateProfileData)
				profile.POST("/me/photos", h.Profile.UploadPhoto)
				profile.DELETE("/me/photos/:photo_id", h.Profile.DeletePhoto)
			}

			chat := protected.Group("/chat")
			{
				chat.POST("", r.requireSetup, middleware.RateLimit(r.limiters.Chat, middleware.ByUser, r.logger), h.Chat.SendMessage)
				chat.GET("/intro", h.Chat.Intro)
				chat.GET("/history", h.Chat.History)
				chat.GET("/status", h.Chat.Status)
			}

			protected.GET("/discover", h.Discover.Discover)

			matches := protected.Group("/matches")
			{
				matches.POST("/like", h.Match.Like)
				matches.POST("/pass", h.Match.Pass)
				matches.GET("", h.Match.List)
				matches.DELETE("/:match_id", h.Match.Unmatch)
				matches.GET("/:match_id/icebreakers", h.Match.Icebreakers)
				matches.GET("/:match_id/messages", h.Match.ListMessages)
				matches.POST("/:match_id/messages",
					middleware.RateLimit(r.limiters.Messages, middleware.ByUser, r.logger),
					h.Match.SendMessage)
			}

			blocks := protected.Group("/block")
			{
				blocks.POST("", h.Block.Block)
				blocks.GET("", h.Block.List)
				blocks.DELETE("/:blocked_user_id", h.Block.Unblock)
			}
		}
	}

	return router
}

// requireSetup rejects chat turns before account setup so those requests
// never spend the chat rate budget.
func (r *Router) requireSetup(c *gin.Context) {
	if !middleware.CurrentUser(c).ProfileSetupComplete {
		c.AbortWithStatusJSON(http.StatusForbidden, handler.ErrorResponse{Error: "Complete your profile setup first"})
		return
	}
	c.Next()
}
