package service

import (
	"errors"
	"time"

	associationModel "connectcampus/internal/domain/association/model"
	associationRepo "connectcampus/internal/domain/association/repository"
	studentModel "connectcampus/internal/domain/student/model"
	studentRepo "connectcampus/internal/domain/student/repository"
	"connectcampus/internal/domain/user/model"
	"connectcampus/internal/domain/user/repository"
	"connectcampus/pkg/logger"
	"connectcampus/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserExists 用户名或邮箱已占用
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// RegisterInput 注册参数。根据 Role 建对应的档案。
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     int

	// 学生档案字段
	Name      string
	StudentNo string
	Major     string
	Grade     int

	// 社团档案字段
	Description string
	Category    string
}

type UserService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(username, password string) (string, *time.Time, *model.User, error)
	GetUser(id string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
	DeleteUser(id string) error
}

type userService struct {
	repo         repository.UserRepository
	students     studentRepo.StudentRepository
	associations associationRepo.AssociationRepository
}

func NewUserService(repo repository.UserRepository, students studentRepo.StudentRepository, associations associationRepo.AssociationRepository) UserService {
	return &userService{
		repo:         repo,
		students:     students,
		associations: associations,
	}
}

// Register 注册账号并创建对应的学生/社团档案
func (s *userService) Register(input RegisterInput) (*model.User, error) {
	if input.Role != model.RoleStudent && input.Role != model.RoleAssociation {
		return nil, errors.New("invalid role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		Role:     input.Role,
	}

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	// 建档失败时回收刚建的账号，避免留下没有档案的孤儿账号
	if err := s.provisionProfile(user, input); err != nil {
		if delErr := s.repo.Delete(user); delErr != nil {
			logger.Sugar.Errorf("Failed to rollback user %s after profile error: %v", user.ID, delErr)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) provisionProfile(user *model.User, input RegisterInput) error {
	switch user.Role {
	case model.RoleStudent:
		return s.students.Create(&studentModel.Student{
			UserID:    user.ID,
			Name:      input.Name,
			StudentNo: input.StudentNo,
			Major:     input.Major,
			Grade:     input.Grade,
		})
	case model.RoleAssociation:
		return s.associations.Create(&associationModel.Association{
			UserID:      user.ID,
			Name:        input.Name,
			Description: input.Description,
			Category:    input.Category,
		})
	}
	return nil
}

// Login 校验密码并签发 Token
func (s *userService) Login(username, password string) (string, *time.Time, *model.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, nil, ErrInvalidCredentials
		}
		return "", nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, nil, ErrInvalidCredentials
	}

	token, expireAt, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, nil, err
	}
	return token, expireAt, user, nil
}

func (s *userService) GetUser(id string) (*model.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

func (s *userService) DeleteUser(id string) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(user)
}
