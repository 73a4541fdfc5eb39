package handler

import (
	"errors"
	"net/http"

	"connectcampus/internal/domain/announcement/service"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnnouncementHandler struct {
	service service.AnnouncementService
}

func NewAnnouncementHandler(service service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

type createAnnouncementRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required"`
	CoverURL string `json:"coverUrl"`
}

// Create 发布公告
// @Summary 发布公告（社团账号）
// @Tags Announcement
// @Accept json
// @Produce json
// @Param body body createAnnouncementRequest true "公告内容"
// @Success 200 {object} response.Response
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body: "+err.Error())
		return
	}

	announcement, err := h.service.Create(middleware.GetUserID(c), middleware.GetRole(c), req.Title, req.Content, req.CoverURL)
	if err != nil {
		if errors.Is(err, userService.ErrAuthorUnresolved) {
			response.Error(c, http.StatusForbidden, response.ErrAuthorUnresolved, "Only associations can publish announcements")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create announcement")
		return
	}

	response.Success(c, announcement)
}

// Get 公告详情
func (h *AnnouncementHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAnnouncementNotFound, "Announcement not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get announcement")
		return
	}
	response.Success(c, detail)
}

// List 公告列表
func (h *AnnouncementHandler) List(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	announcements, total, err := h.service.List(c.Query("associationId"), c.Query("keyword"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list announcements")
		return
	}

	response.Success(c, utils.PageResult{
		List:  announcements,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

type updateAnnouncementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CoverURL string `json:"coverUrl"`
}

// Update 更新公告（发布社团或管理员）
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req updateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	announcement, err := h.service.Update(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id"), req.Title, req.Content, req.CoverURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, announcement)
}

// Delete 删除公告
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetThread 公告的完整评论楼层树
// @Summary 获取公告评论树
// @Tags Announcement
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Response
// @Router /announcements/{id}/thread [get]
func (h *AnnouncementHandler) GetThread(c *gin.Context) {
	thread, err := h.service.GetThread(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAnnouncementNotFound, "Announcement not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get thread")
		return
	}
	response.Success(c, thread)
}

type addCommentRequest struct {
	Content         string  `json:"content" binding:"required,max=2000"`
	ParentCommentID *string `json:"parentCommentId"`
}

// AddComment 发表评论或回复
func (h *AnnouncementHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body: "+err.Error())
		return
	}

	node, err := h.service.AddComment(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id"), req.ParentCommentID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParentMismatch):
			response.Error(c, http.StatusUnprocessableEntity, response.ErrParentMismatch, "Parent comment not found in this announcement")
		case errors.Is(err, userService.ErrAuthorUnresolved):
			response.Error(c, http.StatusForbidden, response.ErrAuthorUnresolved, "Session does not resolve to an author")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrAnnouncementNotFound, "Announcement not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to add comment")
		}
		return
	}

	response.Success(c, node)
}

type editCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// EditComment 编辑评论正文
func (h *AnnouncementHandler) EditComment(c *gin.Context) {
	var req editCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	comment, err := h.service.EditComment(middleware.GetUserID(c), middleware.GetRole(c), c.Param("commentId"), req.Content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, "Comment not found")
			return
		}
		h.writeError(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除评论及其子树（重复删除幂等）
func (h *AnnouncementHandler) DeleteComment(c *gin.Context) {
	if err := h.service.DeleteComment(middleware.GetUserID(c), middleware.GetRole(c), c.Param("commentId")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// Like 点赞公告
func (h *AnnouncementHandler) Like(c *gin.Context) {
	if err := h.service.Like(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyLiked):
			response.Error(c, http.StatusConflict, response.ErrAlreadyLiked, "Already liked")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrAnnouncementNotFound, "Announcement not found")
		case errors.Is(err, userService.ErrAuthorUnresolved):
			response.Error(c, http.StatusForbidden, response.ErrAuthorUnresolved, "Session does not resolve to an author")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to like")
		}
		return
	}
	response.Success(c, nil)
}

// Unlike 取消点赞（幂等）
func (h *AnnouncementHandler) Unlike(c *gin.Context) {
	if err := h.service.Unlike(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id")); err != nil {
		if errors.Is(err, userService.ErrAuthorUnresolved) {
			response.Error(c, http.StatusForbidden, response.ErrAuthorUnresolved, "Session does not resolve to an author")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to unlike")
		return
	}
	response.Success(c, nil)
}

func (h *AnnouncementHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, response.ErrAnnouncementNotFound, "Announcement not found")
	case errors.Is(err, service.ErrPermissionDenied):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Permission denied")
	case errors.Is(err, userService.ErrAuthorUnresolved):
		response.Error(c, http.StatusForbidden, response.ErrAuthorUnresolved, "Session does not resolve to an author")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Operation failed")
	}
}
