package service

import (
	"errors"
	"time"

	"connectcampus/internal/domain/report/model"
	"connectcampus/internal/domain/report/repository"
)

var (
	// ErrInvalidTarget 不支持的举报目标类型
	ErrInvalidTarget = errors.New("invalid report target type")
	// ErrAlreadyHandled 举报已被处理过
	ErrAlreadyHandled = errors.New("report already handled")
	// ErrInvalidStatus 处理动作只能是 resolved 或 dismissed
	ErrInvalidStatus = errors.New("invalid report status")
)

type ReportService interface {
	CreateReport(reporterID, targetType, targetID, reason string) (*model.Report, error)
	GetReports(status string, page, limit int) ([]model.Report, int64, error)
	HandleReport(adminID, reportID, status string) (*model.Report, error)
	GetStats() (*model.ModerationStats, error)
}

type reportService struct {
	repo  repository.ReportRepository
	stats repository.StatsRepository
}

func NewReportService(repo repository.ReportRepository, stats repository.StatsRepository) ReportService {
	return &reportService{repo: repo, stats: stats}
}

func (s *reportService) CreateReport(reporterID, targetType, targetID, reason string) (*model.Report, error) {
	switch targetType {
	case model.TargetAnnouncement, model.TargetComment, model.TargetUser:
	default:
		return nil, ErrInvalidTarget
	}

	report := &model.Report{
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     model.StatusPending,
	}
	if err := s.repo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) GetReports(status string, page, limit int) ([]model.Report, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetList(status, offset, limit)
}

// HandleReport 管理员处理举报，只允许 pending -> resolved/dismissed
func (s *reportService) HandleReport(adminID, reportID, status string) (*model.Report, error) {
	if status != model.StatusResolved && status != model.StatusDismissed {
		return nil, ErrInvalidStatus
	}

	report, err := s.repo.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != model.StatusPending {
		return nil, ErrAlreadyHandled
	}

	now := time.Now()
	report.Status = status
	report.HandledBy = adminID
	report.HandledAt = &now
	if err := s.repo.Update(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) GetStats() (*model.ModerationStats, error) {
	return s.stats.GetModerationStats()
}
