package router

import (
	"time"

	"fleetpoints/internal/config"
	"fleetpoints/internal/handler"
	"fleetpoints/internal/middleware"
	"fleetpoints/internal/repository"
	"fleetpoints/internal/service"
	"fleetpoints/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, blobs service.BlobPutter, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	driverRepo := repository.NewDriverRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	uploadRepo := repository.NewUploadLogRepository(db)
	grantRepo := repository.NewPointGrantRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(driverRepo, cfg, dispatcher)
	driverSvc := service.NewDriverService(driverRepo, grantRepo, blobs)
	rewardSvc := service.NewRewardService(rewardRepo, rdb)
	redemptionSvc := service.NewRedemptionService(driverRepo, rewardRepo, dispatcher)
	importSvc := service.NewImportService(driverRepo, uploadRepo, blobs, cfg.ImportBatchSize)
	pointsSvc := service.NewPointsService(driverRepo, grantRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	accountH := handler.NewAccountHandler(driverSvc)
	driversH := handler.NewDriversHandler(driverSvc)
	rewardsH := handler.NewRewardsHandler(rewardSvc)
	redemptionsH := handler.NewRedemptionsHandler(redemptionSvc)
	importsH := handler.NewImportsHandler(importSvc)
	pointsH := handler.NewPointsHandler(pointsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/forgot-password", middleware.LoginRateLimiter(), authH.ForgotPassword)
		auth.POST("/reset-password", authH.ResetPassword)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Driver surface — any authenticated account
		v1.GET("/me", accountH.Me)
		v1.PATCH("/me", accountH.UpdateProfile)
		v1.POST("/me/avatar", accountH.UploadAvatar)

		v1.GET("/rewards", rewardsH.Catalog)
		v1.POST("/redemptions", redemptionsH.Redeem)
		v1.GET("/redemptions", redemptionsH.History)

		// Admin surface — gated by permission, not by raw role string
		drivers := v1.Group("/drivers", middleware.RequirePermission(middleware.PermManageDrivers))
		{
			drivers.GET("", driversH.List)
			drivers.GET("/:id", driversH.Get)
			drivers.PATCH("/:id", driversH.Update)
			drivers.DELETE("/:id", driversH.Deactivate)
			drivers.POST("/:id/reactivate", driversH.Reactivate)
		}

		rewards := v1.Group("/admin/rewards", middleware.RequirePermission(middleware.PermManageRewards))
		{
			rewards.GET("", rewardsH.List)
			rewards.GET("/:id", rewardsH.Get)
			rewards.POST("", rewardsH.Create)
			rewards.PATCH("/:id", rewardsH.Update)
			rewards.DELETE("/:id", rewardsH.Delete)
		}

		imports := v1.Group("/admin/imports", middleware.RequirePermission(middleware.PermImportPoints))
		{
			imports.POST("/preview", importsH.Preview)
			imports.POST("", importsH.Process)
			imports.GET("", importsH.History)
		}

		points := v1.Group("/admin/points", middleware.RequirePermission(middleware.PermGrantPoints))
		{
			points.POST("/grant", pointsH.Grant)
			points.GET("/:id/history", pointsH.DriverHistory)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
