package repository

import (
	"connectcampus/internal/domain/student/model"

	"gorm.io/gorm"
)

// StudentRepository 接口定义
type StudentRepository interface {
	Create(student *model.Student) error
	GetByID(id string) (*model.Student, error)
	GetByUserID(userID string) (*model.Student, error)
	GetByIDs(ids []string) ([]model.Student, error)
	GetList(keyword string, offset, limit int) ([]model.Student, int64, error)
	Update(student *model.Student) error
	Delete(id string) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository 创建新的仓库实例
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(student *model.Student) error {
	return r.db.Create(student).Error
}

func (r *studentRepository) GetByID(id string) (*model.Student, error) {
	var student model.Student
	if err := r.db.Where("id = ?", id).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetByUserID(userID string) (*model.Student, error) {
	var student model.Student
	if err := r.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByIDs 批量查询，用于作者信息展示
func (r *studentRepository) GetByIDs(ids []string) ([]model.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var students []model.Student
	if err := r.db.Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetList(keyword string, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	query := r.db.Model(&model.Student{})
	if keyword != "" {
		query = query.Where("name ILIKE ? OR student_no ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *studentRepository) Update(student *model.Student) error {
	return r.db.Save(student).Error
}

func (r *studentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Student{}).Error
}
