package announcement

import (
	"connectcampus/internal/domain/announcement/handler"
	"connectcampus/internal/domain/announcement/model"
	"connectcampus/internal/domain/announcement/repository"
	"connectcampus/internal/domain/announcement/service"
	associationRepo "connectcampus/internal/domain/association/repository"
	studentRepo "connectcampus/internal/domain/student/repository"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"
	"connectcampus/pkg/cache"

	"github.com/gin-gonic/gin"
)

// AnnouncementModule 公告模块
type AnnouncementModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&AnnouncementModule{})
}

func (m *AnnouncementModule) Name() string {
	return "announcement"
}

func (m *AnnouncementModule) Priority() int {
	return 10
}

func (m *AnnouncementModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.Announcement{}, &model.Comment{}, &model.Like{}); err != nil {
		return err
	}

	// 1. 依赖注入
	repo := repository.NewAnnouncementRepository(ctx.DB)
	redisCache := cache.NewRedisCache(ctx.Redis)
	authors := userService.NewCachedAuthorService(
		userService.NewAuthorService(
			studentRepo.NewStudentRepository(ctx.DB),
			associationRepo.NewAssociationRepository(ctx.DB),
		),
		redisCache,
	)
	announcementService := service.NewAnnouncementService(repo, authors, redisCache)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)

	// 2. 路由注册
	setupRoutes(ctx.Router, announcementHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AnnouncementHandler) {
	group := r.Group("/announcements")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.List)
		group.POST("", middleware.AssociationMiddleware(), h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)

		group.GET("/:id/thread", h.GetThread)
		group.POST("/:id/comments", h.AddComment)
		group.PUT("/:id/comments/:commentId", h.EditComment)
		group.DELETE("/:id/comments/:commentId", h.DeleteComment)

		group.POST("/:id/like", h.Like)
		group.DELETE("/:id/like", h.Unlike)
	}
}
