package association

import (
	"connectcampus/internal/domain/association/handler"
	"connectcampus/internal/domain/association/model"
	"connectcampus/internal/domain/association/repository"
	"connectcampus/internal/domain/association/service"
	studentRepo "connectcampus/internal/domain/student/repository"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AssociationModule 社团模块
type AssociationModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&AssociationModule{})
}

func (m *AssociationModule) Name() string {
	return "association"
}

func (m *AssociationModule) Priority() int {
	return 3
}

func (m *AssociationModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.Association{}, &model.Follow{}); err != nil {
		return err
	}

	// 1. 依赖注入
	repo := repository.NewAssociationRepository(ctx.DB)
	students := studentRepo.NewStudentRepository(ctx.DB)
	associationService := service.NewAssociationService(repo, students)
	associationHandler := handler.NewAssociationHandler(associationService)

	// 2. 路由注册
	setupRoutes(ctx.Router, associationHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AssociationHandler) {
	group := r.Group("/associations")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.ListAssociations)
		group.GET("/following", h.GetMyFollowing)
		group.PUT("/me", middleware.AssociationMiddleware(), h.UpdateMyAssociation)
		group.GET("/:id", h.GetAssociation)
		group.GET("/:id/followers", h.GetFollowers)
		group.POST("/:id/follow", h.Follow)
		group.DELETE("/:id/follow", h.Unfollow)
	}
}
