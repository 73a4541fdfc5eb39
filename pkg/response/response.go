package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 所有接口共用的返回包络。前端只看 code，message 仅用于提示展示。
type Response struct {
	Code    int         `json:"code"`    // 业务码，0 表示成功
	Message string      `json:"message"` // 给前端的提示文案
	Data    interface{} `json:"data"`    // 载荷，失败时为 null
}

// Success 成功返回，HTTP 200 + 业务码 0
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误返回，HTTP 状态码和业务码分别指定
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
	})
}

// Fail 业务失败，HTTP 层面仍是 200，靠非零业务码区分
func Fail(c *gin.Context, errCode int, msg string) {
	Error(c, http.StatusOK, errCode, msg)
}
