package student

import (
	"connectcampus/internal/domain/student/handler"
	"connectcampus/internal/domain/student/model"
	"connectcampus/internal/domain/student/repository"
	"connectcampus/internal/domain/student/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// StudentModule 学生模块
type StudentModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&StudentModule{})
}

func (m *StudentModule) Name() string {
	return "student"
}

func (m *StudentModule) Priority() int {
	return 2
}

func (m *StudentModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.Student{}); err != nil {
		return err
	}

	// 1. 依赖注入
	studentRepo := repository.NewStudentRepository(ctx.DB)
	studentService := service.NewStudentService(studentRepo)
	studentHandler := handler.NewStudentHandler(studentService)

	// 2. 路由注册
	setupRoutes(ctx.Router, studentHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StudentHandler) {
	group := r.Group("/students")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.ListStudents)
		group.GET("/me", h.GetMyProfile)
		group.PUT("/me", h.UpdateMyProfile)
		group.GET("/:id", h.GetStudent)
	}
}
