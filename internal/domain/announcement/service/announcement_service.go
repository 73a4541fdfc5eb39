package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectcampus/internal/domain/announcement/model"
	"connectcampus/internal/domain/announcement/repository"
	userModel "connectcampus/internal/domain/user/model"
	userService "connectcampus/internal/domain/user/service"
	"connectcampus/internal/pkg/worker"
	"connectcampus/pkg/cache"
	"connectcampus/pkg/logger"
	"connectcampus/pkg/metrics"

	"gorm.io/gorm"
)

var (
	// ErrAlreadyLiked 重复点赞
	ErrAlreadyLiked = errors.New("already liked this announcement")
	// ErrParentMismatch 父评论不存在或属于其他公告
	ErrParentMismatch = errors.New("parent comment not found in this announcement")
	// ErrPermissionDenied 只有作者本人或管理员可以改/删
	ErrPermissionDenied = errors.New("not allowed to modify this resource")
)

// 缓存键常量
const (
	ThreadCacheKeyPrefix = "announcement:thread:"
	ThreadCacheTTL       = time.Minute * 10
)

// maxCommentDepth 父链上行的哨兵深度，超过即认为数据已损坏
const maxCommentDepth = 512

// AnnouncementDetail 公告详情，带发布社团的展示信息
type AnnouncementDetail struct {
	model.Announcement
	Author userModel.AuthorDisplay `json:"author"`
}

type AnnouncementService interface {
	Create(userID string, role int, title, content, coverURL string) (*model.Announcement, error)
	Get(id string) (*AnnouncementDetail, error)
	List(associationID, keyword string, page, limit int) ([]model.Announcement, int64, error)
	Update(userID string, role int, id, title, content, coverURL string) (*model.Announcement, error)
	Delete(userID string, role int, id string) error

	GetThread(announcementID string) ([]*CommentNode, error)
	AddComment(userID string, role int, announcementID string, parentCommentID *string, content string) (*CommentNode, error)
	EditComment(userID string, role int, commentID, content string) (*model.Comment, error)
	DeleteComment(userID string, role int, commentID string) error

	Like(userID string, role int, announcementID string) error
	Unlike(userID string, role int, announcementID string) error
}

type announcementService struct {
	repo    repository.AnnouncementRepository
	authors userService.AuthorService
	cache   cache.CacheService
}

func NewAnnouncementService(repo repository.AnnouncementRepository, authors userService.AuthorService, cache cache.CacheService) AnnouncementService {
	return &announcementService{
		repo:    repo,
		authors: authors,
		cache:   cache,
	}
}

func threadCacheKey(announcementID string) string {
	return fmt.Sprintf("%s%s", ThreadCacheKeyPrefix, announcementID)
}

// --- Announcement ---

// Create 发布公告。作者身份从会话解析，必须是社团账号。
func (s *announcementService) Create(userID string, role int, title, content, coverURL string) (*model.Announcement, error) {
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return nil, err
	}
	if ref.Kind != userModel.AuthorKindAssociation {
		return nil, userService.ErrAuthorUnresolved
	}

	announcement := &model.Announcement{
		AssociationID: ref.ID,
		Title:         title,
		Content:       content,
		CoverURL:      coverURL,
	}
	if err := s.repo.CreateAnnouncement(announcement); err != nil {
		return nil, err
	}

	// 异步广播新公告，失败不影响发布
	worker.Notify("", "新公告", title, map[string]string{
		"type":           "announcement",
		"announcementId": announcement.ID,
	})

	return announcement, nil
}

func (s *announcementService) Get(id string) (*AnnouncementDetail, error) {
	announcement, err := s.repo.GetAnnouncementByID(id)
	if err != nil {
		return nil, err
	}

	return &AnnouncementDetail{
		Announcement: *announcement,
		Author: s.authors.GetDisplay(userModel.AuthorRef{
			ID:   announcement.AssociationID,
			Kind: userModel.AuthorKindAssociation,
		}),
	}, nil
}

func (s *announcementService) List(associationID, keyword string, page, limit int) ([]model.Announcement, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetAnnouncements(associationID, keyword, offset, limit)
}

func (s *announcementService) Update(userID string, role int, id, title, content, coverURL string) (*model.Announcement, error) {
	announcement, err := s.repo.GetAnnouncementByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAnnouncementOwner(userID, role, announcement); err != nil {
		return nil, err
	}

	if title != "" {
		announcement.Title = title
	}
	if content != "" {
		announcement.Content = content
	}
	if coverURL != "" {
		announcement.CoverURL = coverURL
	}

	if err := s.repo.UpdateAnnouncement(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// Delete 删除公告及其全部评论和点赞
func (s *announcementService) Delete(userID string, role int, id string) error {
	announcement, err := s.repo.GetAnnouncementByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // 已删除，幂等返回成功
		}
		return err
	}
	if err := s.checkAnnouncementOwner(userID, role, announcement); err != nil {
		return err
	}

	if err := s.repo.DeleteAnnouncement(id); err != nil {
		return err
	}

	s.invalidateThread(id)
	return nil
}

func (s *announcementService) checkAnnouncementOwner(userID string, role int, announcement *model.Announcement) error {
	if role == userModel.RoleAdmin {
		return nil
	}
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return ErrPermissionDenied
	}
	if ref.Kind != userModel.AuthorKindAssociation || ref.ID != announcement.AssociationID {
		return ErrPermissionDenied
	}
	return nil
}

// --- Thread ---

// GetThread 公告的完整楼层树。命中缓存直接返回，未命中时整树重建并回填。
func (s *announcementService) GetThread(announcementID string) ([]*CommentNode, error) {
	ctx := context.Background()
	cacheKey := threadCacheKey(announcementID)

	var cached []*CommentNode
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		metrics.Default.RecordCacheLookup("thread", true)
		return cached, nil
	}
	metrics.Default.RecordCacheLookup("thread", false)

	if _, err := s.repo.GetAnnouncementByID(announcementID); err != nil {
		return nil, err
	}

	comments, err := s.repo.GetCommentsByAnnouncementID(announcementID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	roots := BuildThread(comments)
	displays := s.authors.BatchDisplay(collectAuthorRefs(comments))
	applyAuthorDisplays(roots, displays)
	metrics.Default.RecordThreadBuild(time.Since(start), len(comments))

	if err := s.cache.Set(ctx, cacheKey, roots, ThreadCacheTTL); err != nil {
		// 缓存失败不影响业务逻辑，只记录日志
		logger.Sugar.Warnf("Failed to cache thread %s: %v", announcementID, err)
	}

	return roots, nil
}

// AddComment 发表评论或回复。父评论必须已存在且属于同一公告。
func (s *announcementService) AddComment(userID string, role int, announcementID string, parentCommentID *string, content string) (*CommentNode, error) {
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetAnnouncementByID(announcementID); err != nil {
		return nil, err
	}

	if parentCommentID != nil {
		parent, err := s.repo.GetCommentByID(*parentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentMismatch
			}
			return nil, err
		}
		if parent.AnnouncementID != announcementID {
			return nil, ErrParentMismatch
		}
		if err := s.verifyAncestry(parent); err != nil {
			return nil, err
		}
	}

	comment := &model.Comment{
		AnnouncementID:  announcementID,
		ParentCommentID: parentCommentID,
		AuthorID:        ref.ID,
		AuthorKind:      ref.Kind,
		Content:         content,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}

	node := newCommentNode(comment)
	node.Author = s.authors.GetDisplay(ref)

	s.patchThread(announcementID, func(roots []*CommentNode) ([]*CommentNode, bool) {
		return insertThreadNode(roots, node)
	})

	return node, nil
}

// EditComment 编辑评论内容。父子关系不可变，只允许改正文。
// 只有作者本人能编辑；管理员走删除，不能替别人改口。
func (s *announcementService) EditComment(userID string, role int, commentID, content string) (*model.Comment, error) {
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != ref.ID || comment.AuthorKind != ref.Kind {
		return nil, ErrPermissionDenied
	}

	now := time.Now()
	comment.Content = content
	comment.EditedAt = &now
	if err := s.repo.UpdateCommentContent(comment); err != nil {
		return nil, err
	}

	s.patchThread(comment.AnnouncementID, func(roots []*CommentNode) ([]*CommentNode, bool) {
		ok := updateThreadNode(roots, commentID, content, &now)
		return roots, ok
	})

	return comment, nil
}

// DeleteComment 删除评论及其整个子树，计数按删除条数回退。
// 评论已不存在时幂等返回成功。
func (s *announcementService) DeleteComment(userID string, role int, commentID string) error {
	comment, err := s.repo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	ref, resolveErr := s.authors.Resolve(userID, role)
	if resolveErr != nil && role != userModel.RoleAdmin {
		return resolveErr
	}
	if err := checkCommentOwner(ref, role, comment); err != nil {
		return err
	}

	comments, err := s.repo.GetCommentsByAnnouncementID(comment.AnnouncementID)
	if err != nil {
		return err
	}
	ids := collectSubtreeIDs(comments, commentID)

	if err := s.repo.DeleteComments(comment.AnnouncementID, ids); err != nil {
		return err
	}

	s.patchThread(comment.AnnouncementID, func(roots []*CommentNode) ([]*CommentNode, bool) {
		roots, removed, ok := removeThreadNode(roots, commentID)
		// 缓存里的子树和库里不一致时放弃修补，走失效重建
		return roots, ok && removed == len(ids)
	})

	return nil
}

// verifyAncestry 沿父链上行校验。父子关系建后不可变，正常数据不可能成环；
// 走到环或超过哨兵深度说明库被人为改坏过，拒绝在其上继续挂楼。
func (s *announcementService) verifyAncestry(parent *model.Comment) error {
	seen := map[string]bool{parent.ID: true}
	cur := parent
	for depth := 1; cur.ParentCommentID != nil; depth++ {
		if depth > maxCommentDepth || seen[*cur.ParentCommentID] {
			logger.Sugar.Warnf("Corrupt comment ancestry detected at %s", cur.ID)
			return ErrParentMismatch
		}
		next, err := s.repo.GetCommentByID(*cur.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentMismatch
			}
			return err
		}
		seen[next.ID] = true
		cur = next
	}
	return nil
}

func checkCommentOwner(ref userModel.AuthorRef, role int, comment *model.Comment) error {
	if role == userModel.RoleAdmin {
		return nil
	}
	if comment.AuthorID != ref.ID || comment.AuthorKind != ref.Kind {
		return ErrPermissionDenied
	}
	return nil
}

// patchThread 就地修补缓存的楼层树。缓存未命中时无事可做；
// 修补不了（父节点缺失、子树不一致）就删键，下次读整树重建。
func (s *announcementService) patchThread(announcementID string, patch func([]*CommentNode) ([]*CommentNode, bool)) {
	ctx := context.Background()
	cacheKey := threadCacheKey(announcementID)

	var roots []*CommentNode
	if err := s.cache.Get(ctx, cacheKey, &roots); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.invalidateThread(announcementID)
		}
		return
	}

	patched, ok := patch(roots)
	if !ok {
		s.invalidateThread(announcementID)
		return
	}

	if err := s.cache.Set(ctx, cacheKey, patched, ThreadCacheTTL); err != nil {
		s.invalidateThread(announcementID)
	}
}

func (s *announcementService) invalidateThread(announcementID string) {
	if err := s.cache.Delete(context.Background(), threadCacheKey(announcementID)); err != nil {
		logger.Sugar.Warnf("Failed to invalidate thread cache %s: %v", announcementID, err)
	}
}

// --- Like ---

// Like 点赞。唯一键冲突说明已点过，翻译成业务错误，计数不会多加。
func (s *announcementService) Like(userID string, role int, announcementID string) error {
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetAnnouncementByID(announcementID); err != nil {
		return err
	}

	like := &model.Like{
		AnnouncementID: announcementID,
		AuthorID:       ref.ID,
		AuthorKind:     ref.Kind,
	}
	if err := s.repo.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

// Unlike 取消点赞，未点过时幂等返回成功
func (s *announcementService) Unlike(userID string, role int, announcementID string) error {
	ref, err := s.authors.Resolve(userID, role)
	if err != nil {
		return err
	}
	return s.repo.DeleteLike(announcementID, ref.ID, ref.Kind)
}
