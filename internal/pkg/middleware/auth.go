package middleware

import (
	"net/http"
	"strings"

	"connectcampus/internal/domain/user/model"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "role"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		// 作者身份只信任这里写入的会话数据，绝不信任请求体里的 author 字段
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)

		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return requireRole(model.RoleAdmin)
}

// AssociationMiddleware 社团账号权限中间件（发布公告/活动）
func AssociationMiddleware() gin.HandlerFunc {
	return requireRole(model.RoleAssociation)
}

func requireRole(want int) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRoleKey)
		if !exists {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Invalid role format")
			c.Abort()
			return
		}

		// 管理员放行所有需要角色的路由
		if roleInt != want && roleInt != model.RoleAdmin {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID 从上下文取会话用户ID
func GetUserID(c *gin.Context) string {
	val, _ := c.Get(CtxUserIDKey)
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// GetRole 从上下文取会话角色
func GetRole(c *gin.Context) int {
	val, _ := c.Get(CtxRoleKey)
	if r, ok := val.(int); ok {
		return r
	}
	return 0
}
