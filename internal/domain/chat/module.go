package chat

import (
	"connectcampus/internal/domain/chat/handler"
	"connectcampus/internal/domain/chat/model"
	"connectcampus/internal/domain/chat/repository"
	"connectcampus/internal/domain/chat/service"
	userRepo "connectcampus/internal/domain/user/repository"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ChatModule 私信模块
type ChatModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&ChatModule{})
}

func (m *ChatModule) Name() string {
	return "chat"
}

func (m *ChatModule) Priority() int {
	return 12
}

func (m *ChatModule) Init(ctx *registry.ModuleContext) error {
	if err := ctx.DB.AutoMigrate(&model.Conversation{}, &model.Message{}); err != nil {
		return err
	}

	// 1. 依赖注入
	repo := repository.NewChatRepository(ctx.DB)
	chatService := service.NewChatService(repo, userRepo.NewUserRepository(ctx.DB))
	chatHandler := handler.NewChatHandler(chatService)

	// 2. 路由注册
	setupRoutes(ctx.Router, chatHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ChatHandler) {
	group := r.Group("/chat")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/messages", h.SendMessage)
		group.GET("/conversations", h.GetConversations)
		group.GET("/conversations/:id/messages", h.GetMessages)
		group.PUT("/conversations/:id/read", h.MarkRead)
	}
}
