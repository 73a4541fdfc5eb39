package service

import (
	"errors"
	"time"

	"connectcampus/internal/domain/event/model"
	"connectcampus/internal/domain/event/repository"
	studentModel "connectcampus/internal/domain/student/model"
	studentRepo "connectcampus/internal/domain/student/repository"
	userModel "connectcampus/internal/domain/user/model"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/worker"

	"gorm.io/gorm"
)

var (
	// ErrAlreadyRegistered 重复报名
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrPermissionDenied 只有举办社团或管理员可以改/删
	ErrPermissionDenied = errors.New("not allowed to modify this event")
	// ErrInvalidTimeRange 结束时间不能早于开始时间
	ErrInvalidTimeRange = errors.New("event end time must be after start time")
)

// CreateEventInput 创建活动参数
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	CoverURL    string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
}

type EventService interface {
	Create(userID string, role int, input CreateEventInput) (*model.Event, error)
	Get(id string) (*model.Event, error)
	List(associationID string, upcoming bool, page, limit int) ([]model.Event, int64, error)
	Delete(userID string, role int, id string) error

	Register(userID, eventID string) error
	Unregister(userID, eventID string) error
	GetRegistrants(eventID string, page, limit int) ([]studentModel.Student, int64, error)
}

type eventService struct {
	repo     repository.EventRepository
	students studentRepo.StudentRepository
	authors  userService.AuthorService
}

func NewEventService(repo repository.EventRepository, students studentRepo.StudentRepository, authors userService.AuthorService) EventService {
	return &eventService{
		repo:     repo,
		students: students,
		authors:  authors,
	}
}

// Create 发布活动，作者身份从会话解析，必须是社团账号
func (s *eventService) Create(userID string, role int, input CreateEventInput) (*model.Event, error) {
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return nil, err
	}
	if ref.Kind != userModel.AuthorKindAssociation {
		return nil, userService.ErrAuthorUnresolved
	}

	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	event := &model.Event{
		AssociationID: ref.ID,
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		CoverURL:      input.CoverURL,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Capacity:      input.Capacity,
	}
	if err := s.repo.Create(event); err != nil {
		return nil, err
	}

	// 异步广播新活动
	worker.Notify("", "新活动", input.Title, map[string]string{
		"type":    "event",
		"eventId": event.ID,
	})

	return event, nil
}

func (s *eventService) Get(id string) (*model.Event, error) {
	return s.repo.GetByID(id)
}

func (s *eventService) List(associationID string, upcoming bool, page, limit int) ([]model.Event, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetList(associationID, upcoming, offset, limit)
}

func (s *eventService) Delete(userID string, role int, id string) error {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // 已删除，幂等返回成功
		}
		return err
	}

	if role != userModel.RoleAdmin {
		ref, err := s.authors.Resolve(userID, role)
		if err != nil || ref.Kind != userModel.AuthorKindAssociation || ref.ID != event.AssociationID {
			return ErrPermissionDenied
		}
	}

	return s.repo.Delete(id)
}

// Register 学生报名活动。唯一键冲突翻译成业务错误，满员由仓库层拦截。
func (s *eventService) Register(userID, eventID string) error {
	student, err := s.students.GetByUserID(userID)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByID(eventID); err != nil {
		return err
	}

	if err := s.repo.CreateRegistration(eventID, student.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

// Unregister 取消报名，未报名时幂等
func (s *eventService) Unregister(userID, eventID string) error {
	student, err := s.students.GetByUserID(userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteRegistration(eventID, student.ID)
}

func (s *eventService) GetRegistrants(eventID string, page, limit int) ([]studentModel.Student, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetRegistrants(eventID, offset, limit)
}
