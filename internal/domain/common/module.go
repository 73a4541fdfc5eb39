package common

import (
	"connectcampus/internal/pkg/common"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/internal/pkg/registry"
)

// CommonModule 通用功能模块（文件上传等）
type CommonModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 通用模块最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	ctx.Router.POST("/upload", middleware.AuthMiddleware(), common.UploadFile)
	return nil
}
