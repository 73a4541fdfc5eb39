package handler

import (
	"errors"
	"net/http"

	"connectcampus/internal/domain/report/service"
	"connectcampus/internal/pkg/middleware"
	"connectcampus/pkg/response"
	"connectcampus/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type createReportRequest struct {
	TargetType string `json:"targetType" binding:"required"`
	TargetID   string `json:"targetId" binding:"required"`
	Reason     string `json:"reason" binding:"required,max=500"`
}

// CreateReport 提交举报
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	report, err := h.service.CreateReport(middleware.GetUserID(c), req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid target type")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create report")
		return
	}

	response.Success(c, report)
}

// GetReports 举报列表（管理员）
func (h *ReportHandler) GetReports(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid pagination params")
		return
	}
	p.GetPageOffset()

	reports, total, err := h.service.GetReports(c.Query("status"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list reports")
		return
	}

	response.Success(c, utils.PageResult{
		List:  reports,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

type handleReportRequest struct {
	Status string `json:"status" binding:"required"`
}

// HandleReport 处理举报（管理员）
func (h *ReportHandler) HandleReport(c *gin.Context) {
	var req handleReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid request body")
		return
	}

	report, err := h.service.HandleReport(middleware.GetUserID(c), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Status must be resolved or dismissed")
		case errors.Is(err, service.ErrAlreadyHandled):
			response.Error(c, http.StatusConflict, response.ErrReportNotFound, "Report already handled")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrReportNotFound, "Report not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to handle report")
		}
		return
	}

	response.Success(c, report)
}

// GetStats 审核统计（管理员）
func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to get stats")
		return
	}
	response.Success(c, stats)
}
