package handler

import (
	"errors"
	"net/http"

	"connectcampus/internal/domain/student/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StudentHandler struct {
	service service.StudentService
}

func NewStudentHandler(service service.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// GetStudent 查看学生主页
// @Summary 获取学生档案
// @Tags Student
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Response
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := c.Param("id")

	student, err := h.service.GetStudent(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStudentNotFound, "Student not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get student")
		return
	}

	response.Success(c, student)
}

// GetMyProfile 查看本人档案
func (h *StudentHandler) GetMyProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	student, err := h.service.GetStudentByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStudentNotFound, "Student profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get profile")
		return
	}

	response.Success(c, student)
}

// ListStudents 学生列表（支持按姓名/学号搜索）
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	keyword := c.Query("keyword")

	p.GetPageOffset() // 归一化 page/limit
	students, total, err := h.service.ListStudents(keyword, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list students")
		return
	}

	response.Success(c, utils.PageResult{
		List:  students,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Major     string `json:"major"`
	Grade     int    `json:"grade"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio"`
}

// UpdateMyProfile 更新本人档案
func (h *StudentHandler) UpdateMyProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(c)
	student, err := h.service.UpdateProfile(userID, req.Name, req.Major, req.AvatarURL, req.Bio, req.Grade)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStudentNotFound, "Student profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update profile")
		return
	}

	response.Success(c, student)
}
