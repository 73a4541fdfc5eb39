package service

import (
	"testing"
	"time"

	"connectcampus/internal/domain/announcement/model"
	userModel "connectcampus/internal/domain/user/model"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/pkg/cache"
	baseModel "connectcampus/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockAnnouncementRepository is a mock of AnnouncementRepository
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) CreateAnnouncement(announcement *model.Announcement) error {
	args := m.Called(announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) GetAnnouncementByID(id string) (*model.Announcement, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) GetAnnouncements(associationID, keyword string, offset, limit int) ([]model.Announcement, int64, error) {
	args := m.Called(associationID, keyword, offset, limit)
	return args.Get(0).([]model.Announcement), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnnouncementRepository) UpdateAnnouncement(announcement *model.Announcement) error {
	args := m.Called(announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) DeleteAnnouncement(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) GetCommentByID(id string) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockAnnouncementRepository) GetCommentsByAnnouncementID(announcementID string) ([]model.Comment, error) {
	args := m.Called(announcementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockAnnouncementRepository) UpdateCommentContent(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) DeleteComments(announcementID string, ids []string) error {
	args := m.Called(announcementID, ids)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) CreateLike(like *model.Like) error {
	args := m.Called(like)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) DeleteLike(announcementID, authorID, authorKind string) error {
	args := m.Called(announcementID, authorID, authorKind)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) HasLiked(announcementID, authorID, authorKind string) (bool, error) {
	args := m.Called(announcementID, authorID, authorKind)
	return args.Bool(0), args.Error(1)
}

// MockAuthorService is a mock of user service AuthorService
type MockAuthorService struct {
	mock.Mock
}

func (m *MockAuthorService) Resolve(userID string, role int) (userModel.AuthorRef, error) {
	args := m.Called(userID, role)
	return args.Get(0).(userModel.AuthorRef), args.Error(1)
}

func (m *MockAuthorService) GetDisplay(ref userModel.AuthorRef) userModel.AuthorDisplay {
	args := m.Called(ref)
	return args.Get(0).(userModel.AuthorDisplay)
}

func (m *MockAuthorService) BatchDisplay(refs []userModel.AuthorRef) map[userModel.AuthorRef]userModel.AuthorDisplay {
	args := m.Called(refs)
	return args.Get(0).(map[userModel.AuthorRef]userModel.AuthorDisplay)
}

func testAnnouncement(id string) *model.Announcement {
	return &model.Announcement{
		BaseModel:     baseModel.BaseModel{ID: id},
		AssociationID: "assoc-1",
		Title:         "Test announcement",
	}
}

func studentRef(id string) userModel.AuthorRef {
	return userModel.AuthorRef{ID: id, Kind: userModel.AuthorKindStudent}
}

func TestGetThread(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Builds tree on miss and serves cache on second read", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		comments := []model.Comment{
			makeComment("c1", nil, base),
			makeComment("c2", strPtr("c1"), base.Add(time.Minute)),
		}

		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil).Once()
		mockRepo.On("GetCommentsByAnnouncementID", "ann-1").Return(comments, nil).Once()
		mockAuthors.On("BatchDisplay", mock.Anything).Return(map[userModel.AuthorRef]userModel.AuthorDisplay{
			studentRef("author-c1"): {ID: "author-c1", Kind: userModel.AuthorKindStudent, Name: "Alice"},
			studentRef("author-c2"): {ID: "author-c2", Kind: userModel.AuthorKindStudent, Name: "Bob"},
		}).Once()

		roots, err := svc.GetThread("ann-1")
		assert.NoError(t, err)
		assert.Len(t, roots, 1)
		assert.Equal(t, "Alice", roots[0].Author.Name)
		assert.Equal(t, "Bob", roots[0].Replies[0].Author.Name)

		// 第二次读走缓存，仓库不应再被调用（上面的 Once 约束）
		cachedRoots, err := svc.GetThread("ann-1")
		assert.NoError(t, err)
		assert.Len(t, cachedRoots, 1)
		assert.Equal(t, "c2", cachedRoots[0].Replies[0].ID)

		mockRepo.AssertExpectations(t)
		mockAuthors.AssertExpectations(t)
	})

	t.Run("Missing announcement returns not found", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		mockRepo.On("GetAnnouncementByID", "nowhere").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetThread("nowhere")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestAddComment(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Top-level comment created and cached tree patched", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		existing := []model.Comment{makeComment("c1", nil, base)}

		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentsByAnnouncementID", "ann-1").Return(existing, nil).Once()
		mockAuthors.On("BatchDisplay", mock.Anything).Return(map[userModel.AuthorRef]userModel.AuthorDisplay{}).Once()

		// 预热缓存
		_, err := svc.GetThread("ann-1")
		assert.NoError(t, err)

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockAuthors.On("GetDisplay", studentRef("stu-1")).Return(userModel.AuthorDisplay{
			ID: "stu-1", Kind: userModel.AuthorKindStudent, Name: "Alice",
		})
		mockRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Comment).ID = "c-new"
		}).Return(nil)

		node, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", nil, "hello")
		assert.NoError(t, err)
		assert.Equal(t, "c-new", node.ID)
		assert.Equal(t, "Alice", node.Author.Name)
		assert.Nil(t, node.ParentCommentID)

		// 缓存被就地修补：新顶层评论追加在末尾，且没有触发整树重建
		roots, err := svc.GetThread("ann-1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"c1", "c-new"}, idsOf(roots))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Reply patched under parent in cached tree", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		parent := makeComment("c1", nil, base)
		existing := []model.Comment{parent}

		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentsByAnnouncementID", "ann-1").Return(existing, nil).Once()
		mockAuthors.On("BatchDisplay", mock.Anything).Return(map[userModel.AuthorRef]userModel.AuthorDisplay{}).Once()

		_, err := svc.GetThread("ann-1")
		assert.NoError(t, err)

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockAuthors.On("GetDisplay", studentRef("stu-1")).Return(userModel.AuthorDisplay{ID: "stu-1"})
		mockRepo.On("GetCommentByID", "c1").Return(&parent, nil)
		mockRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Comment).ID = "c-reply"
		}).Return(nil)

		node, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", strPtr("c1"), "reply")
		assert.NoError(t, err)
		assert.Equal(t, "c-reply", node.ID)

		roots, err := svc.GetThread("ann-1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"c-reply"}, idsOf(roots[0].Replies))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Parent from another announcement rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		foreign := makeComment("c-foreign", nil, base)
		foreign.AnnouncementID = "ann-other"

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentByID", "c-foreign").Return(&foreign, nil)

		_, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", strPtr("c-foreign"), "reply")
		assert.ErrorIs(t, err, ErrParentMismatch)
	})

	t.Run("Missing parent rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentByID", "nowhere").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", strPtr("nowhere"), "reply")
		assert.ErrorIs(t, err, ErrParentMismatch)
	})

	t.Run("Reply to a valid nested parent walks the chain", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		root := makeComment("c1", nil, base)
		child := makeComment("c2", strPtr("c1"), base.Add(time.Minute))

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockAuthors.On("GetDisplay", studentRef("stu-1")).Return(userModel.AuthorDisplay{ID: "stu-1"})
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentByID", "c2").Return(&child, nil).Once()
		mockRepo.On("GetCommentByID", "c1").Return(&root, nil).Once()
		mockRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Return(nil)

		_, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", strPtr("c2"), "deep reply")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Corrupt cyclic ancestry rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		// 手工改库造出的环：c1 和 c2 互为父节点
		loopA := makeComment("c1", strPtr("c2"), base)
		loopB := makeComment("c2", strPtr("c1"), base.Add(time.Minute))

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentByID", "c1").Return(&loopA, nil)
		mockRepo.On("GetCommentByID", "c2").Return(&loopB, nil)

		_, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", strPtr("c1"), "reply")
		assert.ErrorIs(t, err, ErrParentMismatch)
		mockRepo.AssertNotCalled(t, "CreateComment", mock.Anything)
	})

	t.Run("Self-referencing parent rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		selfRef := makeComment("c1", strPtr("c1"), base)

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("GetCommentByID", "c1").Return(&selfRef, nil)

		_, err := svc.AddComment("user-1", userModel.RoleStudent, "ann-1", strPtr("c1"), "reply")
		assert.ErrorIs(t, err, ErrParentMismatch)
	})
}

func TestEditComment(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Author edits own comment", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		comment := makeComment("c1", nil, base)
		comment.AuthorID = "stu-1"

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetCommentByID", "c1").Return(&comment, nil)
		mockRepo.On("UpdateCommentContent", mock.AnythingOfType("*model.Comment")).Return(nil)

		updated, err := svc.EditComment("user-1", userModel.RoleStudent, "c1", "new text")
		assert.NoError(t, err)
		assert.Equal(t, "new text", updated.Content)
		assert.NotNil(t, updated.EditedAt)
	})

	t.Run("Someone else cannot edit", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		comment := makeComment("c1", nil, base)
		comment.AuthorID = "stu-1"

		mockAuthors.On("Resolve", "user-2", userModel.RoleStudent).Return(studentRef("stu-2"), nil)
		mockRepo.On("GetCommentByID", "c1").Return(&comment, nil)

		_, err := svc.EditComment("user-2", userModel.RoleStudent, "c1", "hijack")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("Admin cannot rewrite someone else's words", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		// 管理员没有作者档案，编辑权只属于作者本人
		mockAuthors.On("Resolve", "admin-1", userModel.RoleAdmin).Return(userModel.AuthorRef{}, userService.ErrAuthorUnresolved)

		_, err := svc.EditComment("admin-1", userModel.RoleAdmin, "c1", "rewritten")
		assert.ErrorIs(t, err, userService.ErrAuthorUnresolved)
		mockRepo.AssertNotCalled(t, "UpdateCommentContent", mock.Anything)
	})
}

func TestDeleteComment(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Deletes whole subtree with counter-sized id set", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		// c2 下面挂 c3、c4，c4 下面挂 c5：删 c2 应当带走 4 条
		target := makeComment("c2", strPtr("c1"), base.Add(time.Minute))
		target.AuthorID = "stu-1"
		comments := []model.Comment{
			makeComment("c1", nil, base),
			target,
			makeComment("c3", strPtr("c2"), base.Add(2*time.Minute)),
			makeComment("c4", strPtr("c2"), base.Add(3*time.Minute)),
			makeComment("c5", strPtr("c4"), base.Add(4*time.Minute)),
		}

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetCommentByID", "c2").Return(&target, nil)
		mockRepo.On("GetCommentsByAnnouncementID", "ann-1").Return(comments, nil)
		mockRepo.On("DeleteComments", "ann-1", mock.MatchedBy(func(ids []string) bool {
			return len(ids) == 4
		})).Return(nil)

		err := svc.DeleteComment("user-1", userModel.RoleStudent, "c2")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Admin removes someone else's comment", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		target := makeComment("c1", nil, base)
		target.AuthorID = "stu-1"

		// 管理员没有作者档案，Resolve 失败不应阻止删除
		mockAuthors.On("Resolve", "admin-1", userModel.RoleAdmin).Return(userModel.AuthorRef{}, userService.ErrAuthorUnresolved)
		mockRepo.On("GetCommentByID", "c1").Return(&target, nil)
		mockRepo.On("GetCommentsByAnnouncementID", "ann-1").Return([]model.Comment{target}, nil)
		mockRepo.On("DeleteComments", "ann-1", []string{"c1"}).Return(nil)

		err := svc.DeleteComment("admin-1", userModel.RoleAdmin, "c1")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Deleting missing comment is idempotent", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		mockRepo.On("GetCommentByID", "gone").Return(nil, gorm.ErrRecordNotFound)

		err := svc.DeleteComment("user-1", userModel.RoleStudent, "gone")
		assert.NoError(t, err)
	})
}

func TestLike(t *testing.T) {
	t.Run("Like success", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("CreateLike", mock.MatchedBy(func(like *model.Like) bool {
			return like.AuthorID == "stu-1" && like.AuthorKind == userModel.AuthorKindStudent
		})).Return(nil)

		assert.NoError(t, svc.Like("user-1", userModel.RoleStudent, "ann-1"))
	})

	t.Run("Duplicate like surfaces conflict", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("GetAnnouncementByID", "ann-1").Return(testAnnouncement("ann-1"), nil)
		mockRepo.On("CreateLike", mock.Anything).Return(gorm.ErrDuplicatedKey)

		err := svc.Like("user-1", userModel.RoleStudent, "ann-1")
		assert.ErrorIs(t, err, ErrAlreadyLiked)
	})

	t.Run("Unlike is idempotent", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockAuthors := new(MockAuthorService)
		svc := NewAnnouncementService(mockRepo, mockAuthors, cache.NewMemoryCache())

		mockAuthors.On("Resolve", "user-1", userModel.RoleStudent).Return(studentRef("stu-1"), nil)
		mockRepo.On("DeleteLike", "ann-1", "stu-1", userModel.AuthorKindStudent).Return(nil)

		assert.NoError(t, svc.Unlike("user-1", userModel.RoleStudent, "ann-1"))
	})
}
