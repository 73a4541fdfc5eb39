package model

import (
	"time"

	baseModel "connectcampus/pkg/model"
)

// 举报目标类型
const (
	TargetAnnouncement = "announcement"
	TargetComment      = "comment"
	TargetUser         = "user"
)

// 举报处理状态
const (
	StatusPending   = "pending"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

// Report 内容举报
type Report struct {
	baseModel.BaseModel
	ReporterID string `gorm:"index;size:36" json:"reporterId"` // 举报人账号ID
	TargetType string `gorm:"size:16" json:"targetType"`
	TargetID   string `gorm:"size:36" json:"targetId"`
	Reason     string `json:"reason"`

	Status    string     `gorm:"default:'pending';index" json:"status"`
	HandledBy string     `gorm:"size:36" json:"handledBy,omitempty"`
	HandledAt *time.Time `json:"handledAt,omitempty"`
}

// ModerationStats 审核统计，管理后台用
type ModerationStats struct {
	TotalPending   int64            `json:"totalPending" db:"total_pending"`
	TotalResolved  int64            `json:"totalResolved" db:"total_resolved"`
	TotalDismissed int64            `json:"totalDismissed" db:"total_dismissed"`
	ByTargetType   []TargetTypeStat `json:"byTargetType"`
}

// TargetTypeStat 按目标类型的举报数
type TargetTypeStat struct {
	TargetType string `json:"targetType" db:"target_type"`
	Count      int64  `json:"count" db:"count"`
}
