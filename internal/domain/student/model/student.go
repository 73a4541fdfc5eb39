package model

import (
	baseModel "connectcampus/pkg/model"
)

// Student 学生档案
type Student struct {
	baseModel.BaseModel
	UserID         string `gorm:"uniqueIndex;size:36" json:"userId"` // 关联账号ID
	Name           string `json:"name"`
	StudentNo      string `gorm:"unique" json:"studentNo"` // 学号
	Major          string `json:"major"`
	Grade          int    `json:"grade"`
	AvatarURL      string `json:"avatarUrl"`
	Bio            string `json:"bio"`
	FollowingCount int    `gorm:"default:0" json:"followingCount"` // 关注的社团数（冗余计数）
}
