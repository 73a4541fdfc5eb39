package repository

import (
	"connectcampus/internal/domain/report/model"

	"gorm.io/gorm"
)

// ReportRepository 接口定义
type ReportRepository interface {
	Create(report *model.Report) error
	GetByID(id string) (*model.Report, error)
	GetList(status string, offset, limit int) ([]model.Report, int64, error)
	Update(report *model.Report) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建新的仓库实例
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

func (r *reportRepository) GetByID(id string) (*model.Report, error) {
	var report model.Report
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) GetList(status string, offset, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	query := r.db.Model(&model.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) Update(report *model.Report) error {
	return r.db.Save(report).Error
}
