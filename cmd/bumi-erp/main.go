package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bumimakmur/bumi-erp/internal/config"
	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/handler"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
	"github.com/bumimakmur/bumi-erp/internal/erp/service"
	"github.com/bumimakmur/bumi-erp/internal/middleware"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting bumi-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis，连不上降级为无缓存运行
	rdb := initRedis(cfg.Redis)
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
			rdb = nil
		}
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb)
	handlers := handler.NewHandlers(services)

	// 确定端口
	port := os.Getenv("ERP_PORT")
	if port == "" {
		port = fmt.Sprintf("%d", cfg.Server.Port)
	}
	if port == "0" || port == "" {
		port = "8081"
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 健康检查
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bumi-erp"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bumi-erp"})
	})

	// 版本信息
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "bumi-erp",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// ERP API v1
	v1 := router.Group("/api/v1/erp")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 产品与BOM主数据
		products := v1.Group("/products")
		{
			products.GET("", handlers.Product.List)
			products.POST("", handlers.Product.Create)
			products.GET("/:id", handlers.Product.Get)
			products.PUT("/:id", handlers.Product.Update)
			products.GET("/:id/boms", handlers.Product.ListBoms)
			products.GET("/:id/boms/active", handlers.Product.GetActiveBom)
		}
		boms := v1.Group("/boms")
		{
			boms.POST("", handlers.Product.CreateBom)
			boms.POST("/:bom_id/activate", handlers.Product.ActivateBom)
		}

		// 供应商管理
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", handlers.Supplier.List)
			suppliers.POST("", handlers.Supplier.Create)
			suppliers.GET("/:id", handlers.Supplier.Get)
			suppliers.PUT("/:id", handlers.Supplier.Update)
			suppliers.DELETE("/:id", handlers.Supplier.Delete)
			suppliers.PUT("/:id/rating", handlers.Supplier.Rate)
			suppliers.PUT("/:id/status", handlers.Supplier.SetStatus)
		}

		// 采购订单
		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", handlers.Procurement.ListPOs)
			pos.POST("", handlers.Procurement.CreatePO)
			pos.GET("/:id", handlers.Procurement.GetPO)
			pos.POST("/:id/approve", handlers.Procurement.ApprovePO)
			pos.POST("/:id/receive", handlers.Procurement.ReceivePO)
			pos.POST("/:id/cancel", handlers.Procurement.CancelPO)
		}

		// 库存管理
		inventory := v1.Group("/inventory")
		{
			inventory.GET("", handlers.Inventory.List)
			inventory.POST("/inbound", handlers.Inventory.Inbound)
			inventory.POST("/outbound", handlers.Inventory.Outbound)
			inventory.POST("/adjust", handlers.Inventory.Adjust)
			inventory.GET("/movements", handlers.Inventory.Movements)
			inventory.GET("/alerts", handlers.Inventory.Alerts)
		}

		// 生产管理
		workOrders := v1.Group("/work-orders")
		{
			workOrders.GET("", handlers.Manufacturing.List)
			workOrders.POST("", handlers.Manufacturing.Create)
			workOrders.GET("/:id", handlers.Manufacturing.Get)
			workOrders.POST("/:id/confirm", handlers.Manufacturing.Confirm)
			workOrders.POST("/:id/release", handlers.Manufacturing.Release)
			workOrders.POST("/:id/pick", handlers.Manufacturing.Pick)
			workOrders.POST("/:id/report", handlers.Manufacturing.Report)
			workOrders.POST("/:id/complete", handlers.Manufacturing.Complete)
			workOrders.POST("/:id/cancel", handlers.Manufacturing.Cancel)
		}

		// 委外管理
		scos := v1.Group("/subcontract-orders")
		{
			scos.GET("", handlers.Subcontract.List)
			scos.POST("", handlers.Subcontract.Create)
			scos.GET("/:id", handlers.Subcontract.Get)
			scos.POST("/:id/confirm", handlers.Subcontract.Confirm)
			scos.POST("/:id/receive", handlers.Subcontract.Receive)
			scos.POST("/:id/cancel", handlers.Subcontract.Cancel)
		}

		// MRP
		mrp := v1.Group("/mrp")
		{
			mrp.GET("/runs", handlers.MRP.ListRuns)
			mrp.POST("/runs", handlers.MRP.CreateRun)
			mrp.GET("/runs/latest", handlers.MRP.Latest)
			mrp.GET("/runs/:id", handlers.MRP.Get)
			mrp.DELETE("/runs/:id", handlers.MRP.Delete)
			mrp.POST("/runs/:id/execute", handlers.MRP.Execute)
			mrp.GET("/runs/:id/demands", handlers.MRP.Demands)
			mrp.GET("/runs/:id/suggestions", handlers.MRP.Suggestions)
			mrp.GET("/runs/:id/export", handlers.MRP.Export)

			mrp.POST("/suggestions/:id/accept", handlers.MRP.AcceptSuggestion)
			mrp.POST("/suggestions/:id/reject", handlers.MRP.RejectSuggestion)
			mrp.PUT("/suggestions/:id/quantity", handlers.MRP.AdjustSuggestion)
			mrp.POST("/suggestions/:id/convert", handlers.MRP.ConvertSuggestion)
		}
	}

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("ERP Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down ERP server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("ERP Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
