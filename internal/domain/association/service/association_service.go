package service

import (
	"errors"

	"connectcampus/internal/domain/association/model"
	"connectcampus/internal/domain/association/repository"
	studentModel "connectcampus/internal/domain/student/model"
	studentRepo "connectcampus/internal/domain/student/repository"

	"gorm.io/gorm"
)

// ErrAlreadyFollowing 重复关注
var ErrAlreadyFollowing = errors.New("already following this association")

type AssociationService interface {
	GetAssociation(id string) (*model.Association, error)
	GetAssociationByUser(userID string) (*model.Association, error)
	ListAssociations(keyword, category string, page, limit int) ([]model.Association, int64, error)
	UpdateProfile(userID string, name, logoURL, description, category string) (*model.Association, error)

	Follow(userID, associationID string) error
	Unfollow(userID, associationID string) error
	GetFollowing(userID string, page, limit int) ([]model.Association, int64, error)
	GetFollowers(associationID string, page, limit int) ([]studentModel.Student, int64, error)
}

type associationService struct {
	repo     repository.AssociationRepository
	students studentRepo.StudentRepository
}

func NewAssociationService(repo repository.AssociationRepository, students studentRepo.StudentRepository) AssociationService {
	return &associationService{repo: repo, students: students}
}

func (s *associationService) GetAssociation(id string) (*model.Association, error) {
	return s.repo.GetByID(id)
}

func (s *associationService) GetAssociationByUser(userID string) (*model.Association, error) {
	return s.repo.GetByUserID(userID)
}

func (s *associationService) ListAssociations(keyword, category string, page, limit int) ([]model.Association, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetList(keyword, category, offset, limit)
}

// UpdateProfile 社团只能改自己的资料，userID 来自会话
func (s *associationService) UpdateProfile(userID string, name, logoURL, description, category string) (*model.Association, error) {
	association, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		association.Name = name
	}
	if logoURL != "" {
		association.LogoURL = logoURL
	}
	if description != "" {
		association.Description = description
	}
	if category != "" {
		association.Category = category
	}

	if err := s.repo.Update(association); err != nil {
		return nil, err
	}
	return association, nil
}

// Follow 关注社团。会话账号先映射到学生档案，唯一键冲突翻译成业务错误。
func (s *associationService) Follow(userID, associationID string) error {
	student, err := s.students.GetByUserID(userID)
	if err != nil {
		return err
	}

	// 先确认社团存在，给出准确的 404
	if _, err := s.repo.GetByID(associationID); err != nil {
		return err
	}

	if err := s.repo.CreateFollow(student.ID, associationID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow 取消关注。未关注时幂等返回成功。
func (s *associationService) Unfollow(userID, associationID string) error {
	student, err := s.students.GetByUserID(userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteFollow(student.ID, associationID)
}

func (s *associationService) GetFollowing(userID string, page, limit int) ([]model.Association, int64, error) {
	student, err := s.students.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	return s.repo.GetFollowing(student.ID, offset, limit)
}

func (s *associationService) GetFollowers(associationID string, page, limit int) ([]studentModel.Student, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetFollowers(associationID, offset, limit)
}
