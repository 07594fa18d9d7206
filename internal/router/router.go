package router

import (
	"context"
	"time"

	"bclick/internal/config"
	"bclick/internal/handler"
	"bclick/internal/infra"
	"bclick/internal/middleware"
	"bclick/internal/model"
	"bclick/internal/repository"
	"bclick/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// notifier may be nil, in which case order events are not published.
// ctx bounds the background goroutines started here.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker, notifier service.OrderNotifier) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartPurge(ctx.Done())

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Handler())

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	priceRepo := repository.NewPriceHistoryRepository(db)

	// ── Caches ───────────────────────────────────────────────────────────────
	userCache := service.NewUserCache(rdb, cfg.UserCacheTTL)
	productCache := service.NewProductCache(rdb, cfg.ProductCacheTTL)

	// ── Services ─────────────────────────────────────────────────────────────
	userSvc := service.NewUserService(userRepo, userCache)
	productSvc := service.NewProductService(productRepo, categoryRepo, movementRepo, priceRepo, productCache)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, productRepo, movementRepo, userRepo, notifier, productCache, cfg.TaxRate)

	// ── Handlers ─────────────────────────────────────────────────────────────
	usersH := handler.NewUsersHandler(userSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	cartH := handler.NewCartHandler(cartSvc, orderSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

	identity := middleware.IdentityToken(cfg.IdPJWTSecret, cfg.IdPIssuer)

	// Sync only needs a verified token: the user may not exist yet.
	r.POST("/api/users/sync", identity, usersH.Sync)

	api := r.Group("/api", identity, middleware.ResolveActor(userSvc))
	{
		api.GET("/users/me", usersH.Me)

		api.GET("/products", productsH.List)
		api.GET("/products/:id", productsH.Get)
		api.GET("/products/barcode/:barcode", productsH.LookupBarcode)
		api.GET("/products/:id/stock-movements", middleware.RequireRole(model.RoleSupplier, model.RoleAdmin), productsH.StockMovements)
		api.GET("/products/:id/price-history", middleware.RequireRole(model.RoleSupplier, model.RoleAdmin), productsH.PriceHistory)
		prods := api.Group("/products", middleware.RequireRole(model.RoleSupplier))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.PATCH("/:id/stock", productsH.AdjustStock)
		}

		api.GET("/categories", categoriesH.List)
		cats := api.Group("/categories", middleware.RequireRole(model.RoleSupplier))
		{
			cats.POST("", categoriesH.Create)
			cats.PUT("/:id", categoriesH.Update)
			cats.DELETE("/:id", categoriesH.Delete)
		}

		cart := api.Group("/cart", middleware.RequireRole(model.RoleClient))
		{
			cart.GET("", cartH.Get)
			cart.POST("", cartH.AddItem)
			cart.PUT("", cartH.SetQuantity)
			cart.DELETE("", cartH.RemoveItem)
			cart.DELETE("/delete", cartH.Clear)
			cart.POST("/submit", cartH.Submit)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.GET("/:id/pdf", ordersH.DownloadPDF)
			orders.POST("/validate-stock", middleware.RequireRole(model.RoleClient, model.RoleSupplier), ordersH.ValidateStock)
			orders.POST("/create", middleware.RequireRole(model.RoleClient), ordersH.Create)
			orders.PUT("/update", middleware.RequireRole(model.RoleClient, model.RoleSupplier), ordersH.Update)
			orders.DELETE("/delete", middleware.RequireRole(model.RoleClient), ordersH.Delete)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
