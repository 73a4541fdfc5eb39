package model

import (
	"time"

	baseModel "connectcampus/pkg/model"
)

// Event 社团活动
type Event struct {
	baseModel.BaseModel
	AssociationID string    `gorm:"index;size:36" json:"associationId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	CoverURL      string    `json:"coverUrl"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`

	Capacity        int `gorm:"default:0" json:"capacity"` // 0 表示不限名额
	RegisteredCount int `gorm:"default:0" json:"registeredCount"`
}

// EventRegistration 活动报名。同一学生对同一活动只允许报一次。
type EventRegistration struct {
	baseModel.BaseModel
	EventID   string `gorm:"uniqueIndex:idx_event_student;size:36" json:"eventId"`
	StudentID string `gorm:"uniqueIndex:idx_event_student;size:36" json:"studentId"`
}
