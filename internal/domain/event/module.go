package event

import (
	associationRepo "connectcampus/internal/domain/association/repository"
	"connectcampus/internal/domain/event/handler"
	"connectcampus/internal/domain/event/model"
	"connectcampus/internal/domain/event/repository"
	"connectcampus/internal/domain/event/service"
	studentRepo "connectcampus/internal/domain/student/repository"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// EventModule 活动模块
type EventModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&EventModule{})
}

func (m *EventModule) Name() string {
	return "event"
}

func (m *EventModule) Priority() int {
	return 11
}

func (m *EventModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.Event{}, &model.EventRegistration{}); err != nil {
		return err
	}

	// 1. 依赖注入
	repo := repository.NewEventRepository(ctx.DB)
	students := studentRepo.NewStudentRepository(ctx.DB)
	authors := userService.NewAuthorService(students, associationRepo.NewAssociationRepository(ctx.DB))
	eventService := service.NewEventService(repo, students, authors)
	eventHandler := handler.NewEventHandler(eventService)

	// 2. 路由注册
	setupRoutes(ctx.Router, eventHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.EventHandler) {
	group := r.Group("/events")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.List)
		group.POST("", middleware.AssociationMiddleware(), h.Create)
		group.GET("/:id", h.Get)
		group.DELETE("/:id", h.Delete)
		group.GET("/:id/registrants", h.GetRegistrants)
		group.POST("/:id/register", h.Register)
		group.DELETE("/:id/register", h.Unregister)
	}
}
