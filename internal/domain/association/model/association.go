package model

import (
	baseModel "connectcampus/pkg/model"
)

// Association 社团
type Association struct {
	baseModel.BaseModel
	UserID         string `gorm:"uniqueIndex;size:36" json:"userId"` // 关联账号ID
	Name           string `gorm:"unique" json:"name"`
	LogoURL        string `json:"logoUrl"`
	Description    string `json:"description"`
	Category       string `json:"category"` // sports, art, tech, volunteer...
	FollowersCount int    `gorm:"default:0" json:"followersCount"` // 粉丝数（冗余计数）
}

// Follow 学生关注社团的关系。同一对 (student, association) 只允许一条，唯一键兜底并发。
type Follow struct {
	baseModel.BaseModel
	StudentID     string `gorm:"uniqueIndex:idx_follow_pair;size:36" json:"studentId"`
	AssociationID string `gorm:"uniqueIndex:idx_follow_pair;size:36" json:"associationId"`
}
