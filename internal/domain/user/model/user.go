package model

import (
	baseModel "connectcampus/pkg/model"
)

// 账号角色
const (
	RoleStudent     = 1 // 学生
	RoleAssociation = 2 // 社团
	RoleAdmin       = 9 // 管理员
)

// User 登录账号。学生/社团的展示资料在各自档案表里，这里只存凭证和角色。
type User struct {
	baseModel.BaseModel
	Username string `gorm:"unique" json:"username"`
	Password string `json:"-"` // 密码不返回给前端
	Email    string `gorm:"unique" json:"email"`
	Role     int    `gorm:"default:1" json:"role"`
}
