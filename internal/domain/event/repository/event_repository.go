package repository

import (
	"errors"

	"connectcampus/internal/domain/event/model"
	studentModel "connectcampus/internal/domain/student/model"

	"gorm.io/gorm"
)

// ErrEventFull 名额已满
var ErrEventFull = errors.New("event is full")

// EventRepository 接口定义
type EventRepository interface {
	Create(event *model.Event) error
	GetByID(id string) (*model.Event, error)
	GetList(associationID string, upcoming bool, offset, limit int) ([]model.Event, int64, error)
	Update(event *model.Event) error
	Delete(id string) error

	CreateRegistration(eventID, studentID string) error
	DeleteRegistration(eventID, studentID string) error
	GetRegistrants(eventID string, offset, limit int) ([]studentModel.Student, int64, error)
	HasRegistered(eventID, studentID string) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建新的仓库实例
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *model.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) GetByID(id string) (*model.Event, error) {
	var event model.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetList(associationID string, upcoming bool, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	query := r.db.Model(&model.Event{})
	if associationID != "" {
		query = query.Where("association_id = ?", associationID)
	}
	if upcoming {
		query = query.Where("start_time > NOW()")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("start_time asc").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(event *model.Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", id).Delete(&model.EventRegistration{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Event{}).Error
	})
}

// CreateRegistration 报名。名额校验和计数 +1 合成一条条件更新，
// 满员时更新不到行，整个事务回滚。
func (r *eventRepository) CreateRegistration(eventID, studentID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		registration := &model.EventRegistration{
			EventID:   eventID,
			StudentID: studentID,
		}
		if err := tx.Create(registration).Error; err != nil {
			return err
		}

		result := tx.Model(&model.Event{}).
			Where("id = ? AND (capacity = 0 OR registered_count < capacity)", eventID).
			UpdateColumn("registered_count", gorm.Expr("registered_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventFull
		}
		return nil
	})
}

// DeleteRegistration 取消报名，未报名时幂等
func (r *eventRepository) DeleteRegistration(eventID, studentID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 物理删除，软删行会继续占用唯一键导致无法重新报名
		result := tx.Unscoped().
			Where("event_id = ? AND student_id = ?", eventID, studentID).
			Delete(&model.EventRegistration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Event{}).Where("id = ?", eventID).
			UpdateColumn("registered_count", gorm.Expr("GREATEST(registered_count - 1, 0)")).Error
	})
}

func (r *eventRepository) GetRegistrants(eventID string, offset, limit int) ([]studentModel.Student, int64, error) {
	var students []studentModel.Student
	var total int64

	base := r.db.Model(&model.EventRegistration{}).Where("event_registrations.event_id = ?", eventID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Model(&studentModel.Student{}).
		Joins("JOIN event_registrations ON event_registrations.student_id = students.id AND event_registrations.deleted_at IS NULL").
		Where("event_registrations.event_id = ?", eventID).
		Order("event_registrations.created_at asc").
		Offset(offset).Limit(limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *eventRepository) HasRegistered(eventID, studentID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.EventRegistration{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count).Error
	return count > 0, err
}
