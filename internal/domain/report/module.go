package report

import (
	"connectcampus/internal/domain/report/handler"
	"connectcampus/internal/domain/report/model"
	"connectcampus/internal/domain/report/repository"
	"connectcampus/internal/domain/report/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ReportModule 举报模块
type ReportModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&ReportModule{})
}

func (m *ReportModule) Name() string {
	return "report"
}

func (m *ReportModule) Priority() int {
	return 20
}

func (m *ReportModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.Report{}); err != nil {
		return err
	}

	// 1. 依赖注入
	repo := repository.NewReportRepository(ctx.DB)
	stats := repository.NewStatsRepository(ctx.SQLX)
	reportService := service.NewReportService(repo, stats)
	reportHandler := handler.NewReportHandler(reportService)

	// 2. 路由注册
	setupRoutes(ctx.Router, reportHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ReportHandler) {
	group := r.Group("/reports")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("", h.CreateReport)
		group.GET("", middleware.AdminMiddleware(), h.GetReports)
		group.PUT("/:id", middleware.AdminMiddleware(), h.HandleReport)
		group.GET("/stats", middleware.AdminMiddleware(), h.GetStats)
	}
}
