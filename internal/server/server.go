package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MARUGO-s/app-sub001/config"
	"github.com/MARUGO-s/app-sub001/internal/api"
	"github.com/MARUGO-s/app-sub001/internal/mealplan"
	"github.com/MARUGO-s/app-sub001/internal/middleware"
	"github.com/MARUGO-s/app-sub001/internal/repository"
	"github.com/MARUGO-s/app-sub001/internal/router"
	"github.com/MARUGO-s/app-sub001/internal/service"
	"github.com/MARUGO-s/app-sub001/internal/shortage"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires the meal plan store, the shortage engine and the HTTP routes.
// redisClient may be nil, in which case the local plan cache is kept in
// memory and writes are not rate limited.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	var cache mealplan.LocalCache = mealplan.NewMemoryCache()
	var limiter *middleware.RateLimiter
	if redisClient != nil {
		cache = mealplan.NewRedisCache(redisClient)
		limiter = middleware.NewPlanWriteRateLimiter(redisClient)
	}

	recipes := repository.NewRecipeRepository(db)
	overrides := repository.NewUnitOverrideRepository(db)
	repos := shortage.Repositories{
		Recipes:   recipes,
		Inventory: repository.NewInventoryRepository(db),
		Packaging: repository.NewPackagingRepository(db),
		Overrides: overrides,
	}

	deps := router.Dependencies{
		DB:           db,
		Tokens:       service.NewTokenService(cfg.JWTSecret),
		Overrides:    overrides,
		WriteLimiter: limiter,
		CORSOrigins:  cfg.CORSOrigins,
	}

	if cfg.PriceBucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize price sheet storage: %w", err)
		}
		prices := repository.NewPriceSheetRepository(s3cfg.Client, s3cfg.BucketName)
		repos.Prices = prices
		deps.Prices = prices
		deps.Uploads = s3cfg
	} else {
		log.Printf("PRICE_BUCKET not set; shortages are calculated without a price sheet")
	}

	deps.Planner = service.NewPlanner(mealplan.NewGormRemote(db), cache, repos, recipes, service.PlannerConfig{
		Store: mealplan.Options{
			RemoteTimeout:   cfg.RemoteTimeout,
			DeleteBatchSize: cfg.DeleteBatchSize,
		},
		WarningLimit: cfg.WarningLimit,
	})

	return &Server{
		router: router.SetupRouter(deps),
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.http.Handler = s.router
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

var _ api.UploadURLSigner = (*config.S3Config)(nil)
