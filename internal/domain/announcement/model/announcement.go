package model

import (
	"time"

	baseModel "connectcampus/pkg/model"
)

// Announcement 社团公告
type Announcement struct {
	baseModel.BaseModel
	AssociationID string `gorm:"index;size:36" json:"associationId"` // 发布社团
	Title         string `json:"title"`
	Content       string `json:"content"`
	CoverURL      string `json:"coverUrl"`
	Pinned        bool   `gorm:"default:false" json:"pinned"`

	// 冗余计数，发生写入时在同一事务里增量维护，读路径不做 COUNT
	LikesCount    int `gorm:"default:0" json:"likesCount"`
	CommentsCount int `gorm:"default:0" json:"commentsCount"` // 含所有层级的回复
}

// Comment 公告评论。ParentCommentID 为空表示顶层评论，写入后不可变更。
// 作者是多态的：AuthorKind 决定 AuthorID 指向学生表还是社团表。
type Comment struct {
	baseModel.BaseModel
	AnnouncementID  string     `gorm:"index;size:36" json:"announcementId"`
	ParentCommentID *string    `gorm:"index;size:36" json:"parentCommentId"`
	AuthorID        string     `gorm:"size:36" json:"authorId"`
	AuthorKind      string     `gorm:"size:16" json:"authorKind"`
	Content         string     `json:"content"`
	EditedAt        *time.Time `json:"editedAt,omitempty"`
}

// Like 公告点赞。同一作者对同一公告只允许一条，唯一键兜底并发重复提交。
type Like struct {
	baseModel.BaseModel
	AnnouncementID string `gorm:"uniqueIndex:idx_like_author;size:36" json:"announcementId"`
	AuthorID       string `gorm:"uniqueIndex:idx_like_author;size:36" json:"authorId"`
	AuthorKind     string `gorm:"uniqueIndex:idx_like_author;size:16" json:"authorKind"`
}
