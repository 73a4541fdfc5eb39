package service

import (
	"testing"

	studentModel "connectcampus/internal/domain/student/model"
	"connectcampus/internal/domain/user/model"
	"connectcampus/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository 模拟账号仓库
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func newUserServiceWithMocks() (UserService, *MockUserRepository, *MockStudentRepository, *MockAssociationRepository) {
	users := new(MockUserRepository)
	students := new(MockStudentRepository)
	associations := new(MockAssociationRepository)
	return NewUserService(users, students, associations), users, students, associations
}

func TestRegister(t *testing.T) {
	t.Run("学生注册成功并建档", func(t *testing.T) {
		svc, users, students, _ := newUserServiceWithMocks()

		users.On("Create", mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = "user-1"
		}).Return(nil)
		students.On("Create", mock.MatchedBy(func(s *studentModel.Student) bool {
			return s.UserID == "user-1" && s.StudentNo == "2024001"
		})).Return(nil)

		user, err := svc.Register(RegisterInput{
			Username:  "alice",
			Email:     "alice@example.com",
			Password:  "password123",
			Role:      model.RoleStudent,
			Name:      "Alice",
			StudentNo: "2024001",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RoleStudent, user.Role)
		// 密码必须存哈希，不能存明文
		assert.NotEqual(t, "password123", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
		users.AssertExpectations(t)
		students.AssertExpectations(t)
	})

	t.Run("不允许注册管理员角色", func(t *testing.T) {
		svc, users, _, _ := newUserServiceWithMocks()

		_, err := svc.Register(RegisterInput{Username: "x", Password: "password123", Role: model.RoleAdmin})

		assert.Error(t, err)
		users.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("用户名冲突返回已存在", func(t *testing.T) {
		svc, users, _, _ := newUserServiceWithMocks()

		users.On("Create", mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := svc.Register(RegisterInput{Username: "alice", Password: "password123", Role: model.RoleStudent})

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("建档失败时回收账号", func(t *testing.T) {
		svc, users, students, _ := newUserServiceWithMocks()

		users.On("Create", mock.Anything).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = "user-2"
		}).Return(nil)
		// 学号撞了唯一键，注册整体失败
		students.On("Create", mock.Anything).Return(gorm.ErrDuplicatedKey)
		users.On("Delete", mock.MatchedBy(func(u *model.User) bool {
			return u.ID == "user-2"
		})).Return(nil).Once()

		_, err := svc.Register(RegisterInput{Username: "bob", Password: "password123", Role: model.RoleStudent, StudentNo: "2024001"})

		assert.ErrorIs(t, err, ErrUserExists)
		users.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 1

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &model.User{Username: "alice", Password: string(hashed), Role: model.RoleStudent}
	stored.ID = "user-1"

	t.Run("密码正确签发Token", func(t *testing.T) {
		svc, users, _, _ := newUserServiceWithMocks()
		users.On("GetByUsername", "alice").Return(stored, nil)

		token, expireAt, user, err := svc.Login("alice", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotNil(t, expireAt)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("密码错误", func(t *testing.T) {
		svc, users, _, _ := newUserServiceWithMocks()
		users.On("GetByUsername", "alice").Return(stored, nil)

		_, _, _, err := svc.Login("alice", "wrong-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("账号不存在时返回同样的错误", func(t *testing.T) {
		svc, users, _, _ := newUserServiceWithMocks()
		users.On("GetByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := svc.Login("ghost", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
