package handler

import (
	"errors"
	"net/http"
	"time"

	"connectcampus/internal/domain/event/repository"
	"connectcampus/internal/domain/event/service"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CoverURL    string    `json:"coverUrl"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Capacity    int       `json:"capacity" binding:"gte=0"`
}

// Create 发布活动
// @Summary 发布活动（社团账号）
// @Tags Event
// @Accept json
// @Produce json
// @Param body body createEventRequest true "活动内容"
// @Success 200 {object} response.Response
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.service.Create(middleware.GetUserID(c), middleware.GetRole(c), service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CoverURL:    req.CoverURL,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "End time must be after start time")
		case errors.Is(err, userService.ErrAuthorUnresolved):
			response.Error(c, http.StatusForbidden, response.ErrAuthorUnresolved, "Only associations can publish events")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create event")
		}
		return
	}

	response.Success(c, event)
}

// Get 活动详情
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrEventNotFound, "Event not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get event")
		return
	}
	response.Success(c, event)
}

// List 活动列表
func (h *EventHandler) List(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	upcoming := c.Query("upcoming") == "true"
	events, total, err := h.service.List(c.Query("associationId"), upcoming, p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list events")
		return
	}

	response.Success(c, utils.PageResult{
		List:  events,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// Delete 删除活动
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(middleware.GetUserID(c), middleware.GetRole(c), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Permission denied")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to delete event")
		return
	}
	response.Success(c, nil)
}

// Register 报名活动
func (h *EventHandler) Register(c *gin.Context) {
	if err := h.service.Register(middleware.GetUserID(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.Error(c, http.StatusConflict, response.ErrAlreadyRegistered, "Already registered")
		case errors.Is(err, repository.ErrEventFull):
			response.Error(c, http.StatusConflict, response.ErrEventFull, "Event is full")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrEventNotFound, "Event or student profile not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to register")
		}
		return
	}
	response.Success(c, nil)
}

// Unregister 取消报名（幂等）
func (h *EventHandler) Unregister(c *gin.Context) {
	if err := h.service.Unregister(middleware.GetUserID(c), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStudentNotFound, "Student profile not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to unregister")
		return
	}
	response.Success(c, nil)
}

// GetRegistrants 报名名单
func (h *EventHandler) GetRegistrants(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	students, total, err := h.service.GetRegistrants(c.Param("id"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get registrants")
		return
	}

	response.Success(c, utils.PageResult{
		List:  students,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}
