package repository

import (
	"connectcampus/internal/domain/association/model"
	studentModel "connectcampus/internal/domain/student/model"

	"gorm.io/gorm"
)

// AssociationRepository 接口定义
type AssociationRepository interface {
	Create(association *model.Association) error
	GetByID(id string) (*model.Association, error)
	GetByUserID(userID string) (*model.Association, error)
	GetByIDs(ids []string) ([]model.Association, error)
	GetList(keyword, category string, offset, limit int) ([]model.Association, int64, error)
	Update(association *model.Association) error
	Delete(id string) error

	CreateFollow(studentID, associationID string) error
	DeleteFollow(studentID, associationID string) error
	HasFollowed(studentID, associationID string) (bool, error)
	GetFollowing(studentID string, offset, limit int) ([]model.Association, int64, error)
	GetFollowers(associationID string, offset, limit int) ([]studentModel.Student, int64, error)
}

type associationRepository struct {
	db *gorm.DB
}

// NewAssociationRepository 创建新的仓库实例
func NewAssociationRepository(db *gorm.DB) AssociationRepository {
	return &associationRepository{db: db}
}

// --- Association ---

func (r *associationRepository) Create(association *model.Association) error {
	return r.db.Create(association).Error
}

func (r *associationRepository) GetByID(id string) (*model.Association, error) {
	var association model.Association
	if err := r.db.Where("id = ?", id).First(&association).Error; err != nil {
		return nil, err
	}
	return &association, nil
}

func (r *associationRepository) GetByUserID(userID string) (*model.Association, error) {
	var association model.Association
	if err := r.db.Where("user_id = ?", userID).First(&association).Error; err != nil {
		return nil, err
	}
	return &association, nil
}

// GetByIDs 批量查询，用于作者信息展示
func (r *associationRepository) GetByIDs(ids []string) ([]model.Association, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var associations []model.Association
	if err := r.db.Where("id IN ?", ids).Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

func (r *associationRepository) GetList(keyword, category string, offset, limit int) ([]model.Association, int64, error) {
	var associations []model.Association
	var total int64

	query := r.db.Model(&model.Association{})
	if keyword != "" {
		query = query.Where("name ILIKE ?", "%"+keyword+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("followers_count desc, created_at desc").Offset(offset).Limit(limit).Find(&associations).Error; err != nil {
		return nil, 0, err
	}
	return associations, total, nil
}

func (r *associationRepository) Update(association *model.Association) error {
	return r.db.Save(association).Error
}

func (r *associationRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Association{}).Error
}

// --- Follow ---

// CreateFollow 插入关注记录并在同一事务里增量维护两侧计数，
// 避免每次读都 COUNT 全表
func (r *associationRepository) CreateFollow(studentID, associationID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		follow := &model.Follow{
			StudentID:     studentID,
			AssociationID: associationID,
		}
		if err := tx.Create(follow).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Association{}).Where("id = ?", associationID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error; err != nil {
			return err
		}

		return tx.Model(&studentModel.Student{}).Where("id = ?", studentID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error
	})
}

// DeleteFollow 删除关注记录并回退计数。记录不存在时不动计数。
func (r *associationRepository) DeleteFollow(studentID, associationID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 物理删除，软删行会继续占用唯一键导致无法重新关注
		result := tx.Unscoped().Where("student_id = ? AND association_id = ?", studentID, associationID).
			Delete(&model.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&model.Association{}).Where("id = ?", associationID).
			UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count - 1, 0)")).Error; err != nil {
			return err
		}

		return tx.Model(&studentModel.Student{}).Where("id = ?", studentID).
			UpdateColumn("following_count", gorm.Expr("GREATEST(following_count - 1, 0)")).Error
	})
}

func (r *associationRepository) HasFollowed(studentID, associationID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("student_id = ? AND association_id = ?", studentID, associationID).
		Count(&count).Error
	return count > 0, err
}

func (r *associationRepository) GetFollowing(studentID string, offset, limit int) ([]model.Association, int64, error) {
	var associations []model.Association
	var total int64

	base := r.db.Model(&model.Follow{}).Where("follows.student_id = ?", studentID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Model(&model.Association{}).
		Joins("JOIN follows ON follows.association_id = associations.id AND follows.deleted_at IS NULL").
		Where("follows.student_id = ?", studentID).
		Order("follows.created_at desc").
		Offset(offset).Limit(limit).
		Find(&associations).Error
	if err != nil {
		return nil, 0, err
	}
	return associations, total, nil
}

func (r *associationRepository) GetFollowers(associationID string, offset, limit int) ([]studentModel.Student, int64, error) {
	var students []studentModel.Student
	var total int64

	base := r.db.Model(&model.Follow{}).Where("follows.association_id = ?", associationID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Model(&studentModel.Student{}).
		Joins("JOIN follows ON follows.student_id = students.id AND follows.deleted_at IS NULL").
		Where("follows.association_id = ?", associationID).
		Order("follows.created_at desc").
		Offset(offset).Limit(limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}
