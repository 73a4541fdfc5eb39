package handler

import (
	"errors"
	"net/http"

	"connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     int    `json:"role" binding:"required"`

	Name      string `json:"name" binding:"required"`
	StudentNo string `json:"studentNo"`
	Major     string `json:"major"`
	Grade     int    `json:"grade"`

	Description string `json:"description"`
	Category    string `json:"category"`
}

// Register 注册
// @Summary 注册账号（学生或社团）
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "注册信息"
// @Success 200 {object} response.Response
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.service.Register(service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Name:        req.Name,
		StudentNo:   req.StudentNo,
		Major:       req.Major,
		Grade:       req.Grade,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Error(c, http.StatusConflict, response.ErrUserExists, "Username or email already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to register: "+err.Error())
		return
	}

	response.Success(c, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
// @Summary 账号密码登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	token, expireAt, user, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid username or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to login")
		return
	}

	response.Success(c, gin.H{
		"token":    token,
		"expireAt": expireAt,
		"user":     user,
	})
}

// GetMe 当前账号信息
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.service.GetUser(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get user")
		return
	}
	response.Success(c, user)
}

// GetUsers 账号列表（管理员）
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list users")
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// DeleteUser 删除账号（管理员）
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	// 管理员不能删自己
	if id == middleware.GetUserID(c) {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Cannot delete your own account")
		return
	}

	if err := h.service.DeleteUser(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to delete user")
		return
	}

	response.Success(c, nil)
}
