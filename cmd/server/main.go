package main

import (
	"log"

	"connectcampus/internal/pkg/config"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/push"
	"connectcampus/internal/pkg/registry"
	"connectcampus/internal/pkg/uploader"
	"connectcampus/internal/pkg/worker"
	"connectcampus/pkg/database"
	"connectcampus/pkg/logger"

	// 各业务模块通过 init() 自动注册到 registry
	_ "connectcampus/internal/domain/announcement"
	_ "connectcampus/internal/domain/association"
	_ "connectcampus/internal/domain/chat"
	_ "connectcampus/internal/domain/common"
	_ "connectcampus/internal/domain/event"
	_ "connectcampus/internal/domain/report"
	_ "connectcampus/internal/domain/student"
	_ "connectcampus/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title ConnectCampus API
// @version 1.0
// @description 校园社团社区服务端接口
// @BasePath /
func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Debug); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db := database.InitDatabase()
	sqlxDB := database.InitSQLX()
	rdb := database.InitRedis()

	// OSS 与推送都是可选能力，未配置时降级为本地日志
	if err := uploader.InitUploader(); err != nil {
		logger.Sugar.Warnf("OSS uploader not available: %v", err)
	}
	if err := push.InitPushService(); err != nil {
		logger.Sugar.Warnf("Push service not available: %v", err)
	}
	worker.InitNotifyPool()

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := registry.InitModules(&registry.ModuleContext{
		DB:     db,
		SQLX:   sqlxDB,
		Redis:  rdb,
		Router: r,
	}); err != nil {
		logger.Sugar.Fatalf("Failed to initialize modules: %v", err)
	}

	logger.Sugar.Infof("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Sugar.Fatalf("Server exited: %v", err)
	}
}
