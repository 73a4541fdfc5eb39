package handler

import (
	"errors"
	"net/http"

	"connectcampus/internal/domain/chat/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required,max=2000"`
}

// SendMessage 发私信
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	message, err := h.service.SendMessage(middleware.GetUserID(c), req.RecipientID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfMessage):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Cannot message yourself")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "Recipient not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to send message")
		}
		return
	}

	response.Success(c, message)
}

// GetConversations 我的会话列表
func (h *ChatHandler) GetConversations(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	conversations, total, err := h.service.GetConversations(middleware.GetUserID(c), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get conversations")
		return
	}

	response.Success(c, utils.PageResult{
		List:  conversations,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetMessages 会话消息（参与者可见）
func (h *ChatHandler) GetMessages(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	messages, total, err := h.service.GetMessages(middleware.GetUserID(c), c.Param("id"), p.Page, p.Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  messages,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// MarkRead 标记会话已读
func (h *ChatHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(middleware.GetUserID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *ChatHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotParticipant):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Not a participant of this conversation")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, response.ErrInvalidParam, "Conversation not found")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Operation failed")
	}
}
