package repository

import (
	"connectcampus/internal/domain/announcement/model"

	"gorm.io/gorm"
)

// AnnouncementRepository 接口定义
type AnnouncementRepository interface {
	CreateAnnouncement(announcement *model.Announcement) error
	GetAnnouncementByID(id string) (*model.Announcement, error)
	GetAnnouncements(associationID, keyword string, offset, limit int) ([]model.Announcement, int64, error)
	UpdateAnnouncement(announcement *model.Announcement) error
	DeleteAnnouncement(id string) error

	CreateComment(comment *model.Comment) error
	GetCommentByID(id string) (*model.Comment, error)
	GetCommentsByAnnouncementID(announcementID string) ([]model.Comment, error)
	UpdateCommentContent(comment *model.Comment) error
	DeleteComments(announcementID string, ids []string) error

	CreateLike(like *model.Like) error
	DeleteLike(announcementID, authorID, authorKind string) error
	HasLiked(announcementID, authorID, authorKind string) (bool, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository 创建新的仓库实例
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// --- Announcement ---

func (r *announcementRepository) CreateAnnouncement(announcement *model.Announcement) error {
	return r.db.Create(announcement).Error
}

func (r *announcementRepository) GetAnnouncementByID(id string) (*model.Announcement, error) {
	var announcement model.Announcement
	if err := r.db.Where("id = ?", id).First(&announcement).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) GetAnnouncements(associationID, keyword string, offset, limit int) ([]model.Announcement, int64, error) {
	var announcements []model.Announcement
	var total int64

	query := r.db.Model(&model.Announcement{})
	if associationID != "" {
		query = query.Where("association_id = ?", associationID)
	}
	if keyword != "" {
		query = query.Where("title ILIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("pinned desc, created_at desc").Offset(offset).Limit(limit).Find(&announcements).Error; err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}

func (r *announcementRepository) UpdateAnnouncement(announcement *model.Announcement) error {
	return r.db.Save(announcement).Error
}

func (r *announcementRepository) DeleteAnnouncement(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("announcement_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("announcement_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Announcement{}).Error
	})
}

// --- Comment ---

// CreateComment 写入评论并在同一事务里把公告的评论计数 +1
func (r *announcementRepository) CreateComment(comment *model.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Announcement{}).Where("id = ?", comment.AnnouncementID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

func (r *announcementRepository) GetCommentByID(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByAnnouncementID 拉取公告的全部评论，按时间升序。
// 楼层树在内存里组装，这里只保证平铺顺序稳定（时间相同按 id 定序）。
func (r *announcementRepository) GetCommentsByAnnouncementID(announcementID string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.Where("announcement_id = ?", announcementID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *announcementRepository) UpdateCommentContent(comment *model.Comment) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"content":   comment.Content,
			"edited_at": comment.EditedAt,
		}).Error
}

// DeleteComments 批量删除一条评论及其整个子树，
// 同一事务里把评论计数减去删除的条数
func (r *announcementRepository) DeleteComments(announcementID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Announcement{}).Where("id = ?", announcementID).
			UpdateColumn("comments_count", gorm.Expr("GREATEST(comments_count - ?, 0)", result.RowsAffected)).Error
	})
}

// --- Like ---

// CreateLike 写入点赞并在同一事务里把点赞计数 +1。
// 唯一键冲突时整个事务回滚，计数不会多加。
func (r *announcementRepository) CreateLike(like *model.Like) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&model.Announcement{}).Where("id = ?", like.AnnouncementID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// DeleteLike 取消点赞。记录不存在时不动计数，重复取消是幂等的。
func (r *announcementRepository) DeleteLike(announcementID, authorID, authorKind string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 物理删除，软删行会继续占用唯一键导致无法再次点赞
		result := tx.Unscoped().
			Where("announcement_id = ? AND author_id = ? AND author_kind = ?", announcementID, authorID, authorKind).
			Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Announcement{}).Where("id = ?", announcementID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error
	})
}

func (r *announcementRepository) HasLiked(announcementID, authorID, authorKind string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("announcement_id = ? AND author_id = ? AND author_kind = ?", announcementID, authorID, authorKind).
		Count(&count).Error
	return count > 0, err
}
