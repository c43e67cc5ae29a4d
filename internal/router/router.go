package router

import (
	"time"

	"javopos/internal/config"
	"javopos/internal/handler"
	"javopos/internal/ledger"
	"javopos/internal/middleware"
	"javopos/internal/repository"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// The ledger is built in main because the price scheduler and the worker
// pool share it; everything route-scoped is assembled here.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, led *ledger.Ledger) *gin.Engine {
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
	productRepo := repository.NewProductRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Handlers ─────────────────────────────────────────────────────────────
	adjustmentsH := handler.NewAdjustmentsHandler(led, cfg.PDFStoragePath)
	productsH := handler.NewProductsHandler(productRepo)
	auditH := handler.NewAuditHandler(auditRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, led))

	v1 := r.Group("/v1")
	{
		adj := v1.Group("/adjustments")
		{
			adj.POST("", adjustmentsH.Apply)
			adj.POST("/temporal", adjustmentsH.Schedule)
			adj.POST("/:id/revert", adjustmentsH.Revert)
			adj.GET("", adjustmentsH.List)
			adj.GET("/temporal", adjustmentsH.ListTemporal)
			adj.GET("/temporal/pending", adjustmentsH.ListPending)
			adj.GET("/:id", adjustmentsH.Get)
			adj.GET("/:id/report.pdf", adjustmentsH.DownloadReport)
		}

		prods := v1.Group("/products")
		{
			prods.POST("", productsH.Create)
			prods.GET("", productsH.List)
			prods.GET("/:id", productsH.Get)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		v1.GET("/audit", auditH.List)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
