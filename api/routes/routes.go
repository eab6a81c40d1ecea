package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/club-portal-backend/internal/config"
	"github.com/ArowuTest/club-portal-backend/internal/handlers"
	"github.com/ArowuTest/club-portal-backend/internal/metrics"
	"github.com/ArowuTest/club-portal-backend/internal/middleware"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/services"
	"github.com/ArowuTest/club-portal-backend/pkg/jwt"
)

// Dependencies are the services the router dispatches to
type Dependencies struct {
	GameService  services.GameService
	EntryService services.EntryService
	AuthService  services.AuthService
	Tokens       *jwt.TokenService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	gameHandler := handlers.NewGameHandler(deps.GameService)
	entryHandler := handlers.NewEntryHandler(deps.EntryService)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
		public.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	admin := middleware.RequireRole(models.RoleAdmin)
	{
		protected.POST("/auth/staff", admin, authHandler.CreateStaffUser)

		games := protected.Group("/games")
		{
			games.GET("", gameHandler.ListGames)
			games.GET("/active", gameHandler.GetActiveGame)
			games.GET("/:id", gameHandler.GetGame)
			games.GET("/:id/cards", gameHandler.GetDeckState)
			games.GET("/:id/audit", gameHandler.ListAuditEvents)
			games.POST("", admin, gameHandler.CreateGame)
			games.PUT("/:id/rules", admin, gameHandler.UpdateRules)
			games.POST("/:id/close", admin, gameHandler.CloseGame)
			games.DELETE("/:id", admin, gameHandler.DeleteGame)

			// Entry routes
			entries := games.Group("/:id/entries")
			{
				entries.GET("/export", entryHandler.ExportEntries)
				entries.POST("/preview", entryHandler.PreviewEntry)
				entries.POST("", entryHandler.CreateEntry)
				entries.POST("/import", admin, entryHandler.ImportEntries)
				entries.PUT("/:entryId", entryHandler.UpdateEntry)
				entries.DELETE("/:entryId", admin, entryHandler.DeleteEntry)
			}
		}
	}

	return router
}
