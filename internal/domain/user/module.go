package user

import (
	associationRepo "connectcampus/internal/domain/association/repository"
	studentRepo "connectcampus/internal/domain/student/repository"
	"connectcampus/internal/domain/user/handler"
	"connectcampus/internal/domain/user/model"
	"connectcampus/internal/domain/user/repository"
	"connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 账号模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 账号模块优先级最高，因为其他模块依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.User{}); err != nil {
		return err
	}

	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	students := studentRepo.NewStudentRepository(ctx.DB)
	associations := associationRepo.NewAssociationRepository(ctx.DB)
	userService := service.NewUserService(userRepo, students, associations)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.GET("", middleware.AdminMiddleware(), h.GetUsers)
		userGroup.DELETE("/:id", middleware.AdminMiddleware(), h.DeleteUser)
	}
}
