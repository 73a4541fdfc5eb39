package handler

import (
	"errors"
	"net/http"

	"connectcampus/internal/domain/association/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AssociationHandler struct {
	service service.AssociationService
}

func NewAssociationHandler(service service.AssociationService) *AssociationHandler {
	return &AssociationHandler{service: service}
}

// GetAssociation 社团主页
// @Summary 获取社团详情
// @Tags Association
// @Produce json
// @Param id path string true "Association ID"
// @Success 200 {object} response.Response
// @Router /associations/{id} [get]
func (h *AssociationHandler) GetAssociation(c *gin.Context) {
	id := c.Param("id")

	association, err := h.service.GetAssociation(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAssociationNotFound, "Association not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get association")
		return
	}

	response.Success(c, association)
}

// ListAssociations 社团列表（按粉丝数排序，支持分类/关键词筛选）
func (h *AssociationHandler) ListAssociations(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	associations, total, err := h.service.ListAssociations(c.Query("keyword"), c.Query("category"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list associations")
		return
	}

	response.Success(c, utils.PageResult{
		List:  associations,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

type updateAssociationRequest struct {
	Name        string `json:"name"`
	LogoURL     string `json:"logoUrl"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateMyAssociation 更新本社团资料
func (h *AssociationHandler) UpdateMyAssociation(c *gin.Context) {
	var req updateAssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	association, err := h.service.UpdateProfile(userID, req.Name, req.LogoURL, req.Description, req.Category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAssociationNotFound, "Association profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update association")
		return
	}

	response.Success(c, association)
}

// Follow 关注社团
func (h *AssociationHandler) Follow(c *gin.Context) {
	associationID := c.Param("id")
	userID := middleware.GetUserID(c)

	if err := h.service.Follow(userID, associationID); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyFollowing):
			response.Error(c, http.StatusConflict, response.ErrAlreadyFollowing, "Already following")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrAssociationNotFound, "Association not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to follow")
		}
		return
	}

	response.Success(c, nil)
}

// Unfollow 取消关注
func (h *AssociationHandler) Unfollow(c *gin.Context) {
	associationID := c.Param("id")
	userID := middleware.GetUserID(c)

	if err := h.service.Unfollow(userID, associationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStudentNotFound, "Student profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to unfollow")
		return
	}

	response.Success(c, nil)
}

// GetMyFollowing 我关注的社团
func (h *AssociationHandler) GetMyFollowing(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	userID := middleware.GetUserID(c)
	associations, total, err := h.service.GetFollowing(userID, p.Page, p.Limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStudentNotFound, "Student profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get following")
		return
	}

	response.Success(c, utils.PageResult{
		List:  associations,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetFollowers 社团粉丝列表
func (h *AssociationHandler) GetFollowers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	students, total, err := h.service.GetFollowers(c.Param("id"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get followers")
		return
	}

	response.Success(c, utils.PageResult{
		List:  students,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}
