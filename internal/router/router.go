package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MARUGO-s/app-sub001/internal/api"
	"github.com/MARUGO-s/app-sub001/internal/database"
	"github.com/MARUGO-s/app-sub001/internal/middleware"
	"github.com/MARUGO-s/app-sub001/internal/service"
)

// Dependencies are the collaborators the routes are built from. Prices,
// Uploads and WriteLimiter are optional.
type Dependencies struct {
	DB           *gorm.DB
	Planner      *service.Planner
	Tokens       middleware.TokenValidator
	Overrides    api.UnitOverrideStore
	Prices       api.PriceSheetReader
	Uploads      api.UploadURLSigner
	WriteLimiter *middleware.RateLimiter
	CORSOrigins  []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(middleware.CORS(deps.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), deps.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Protected routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		var writeLimit gin.HandlerFunc
		if deps.WriteLimiter != nil {
			writeLimit = deps.WriteLimiter.RateLimitMiddleware()
		}
		api.NewMealPlanHandler(deps.Planner).RegisterRoutes(v1, writeLimit)
		api.NewShortageHandler(deps.Planner).RegisterRoutes(v1)
		api.NewSettingsHandler(deps.Overrides, deps.Prices, deps.Uploads).RegisterRoutes(v1)
	}

	return router
}
