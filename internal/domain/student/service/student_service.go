package service

import (
	"connectcampus/internal/domain/student/model"
	"connectcampus/internal/domain/student/repository"
)

type StudentService interface {
	GetStudent(id string) (*model.Student, error)
	GetStudentByUser(userID string) (*model.Student, error)
	ListStudents(keyword string, page, limit int) ([]model.Student, int64, error)
	UpdateProfile(userID string, name, major, avatarURL, bio string, grade int) (*model.Student, error)
}

type studentService struct {
	repo repository.StudentRepository
}

func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) GetStudent(id string) (*model.Student, error) {
	return s.repo.GetByID(id)
}

func (s *studentService) GetStudentByUser(userID string) (*model.Student, error) {
	return s.repo.GetByUserID(userID)
}

func (s *studentService) ListStudents(keyword string, page, limit int) ([]model.Student, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetList(keyword, offset, limit)
}

// UpdateProfile 学生只能改自己的档案，userID 来自会话
func (s *studentService) UpdateProfile(userID string, name, major, avatarURL, bio string, grade int) (*model.Student, error) {
	student, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		student.Name = name
	}
	if major != "" {
		student.Major = major
	}
	if avatarURL != "" {
		student.AvatarURL = avatarURL
	}
	if bio != "" {
		student.Bio = bio
	}
	if grade > 0 {
		student.Grade = grade
	}

	if err := s.repo.Update(student); err != nil {
		return nil, err
	}
	return student, nil
}
