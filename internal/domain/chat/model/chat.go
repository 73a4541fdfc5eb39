package model

import (
	"time"

	baseModel "connectcampus/pkg/model"
)

// Conversation 两个账号之间的私信会话。
// 存储时保证 UserAID < UserBID，同一对账号只会有一条会话。
type Conversation struct {
	baseModel.BaseModel
	UserAID       string    `gorm:"uniqueIndex:idx_conversation_pair;size:36" json:"userAId"`
	UserBID       string    `gorm:"uniqueIndex:idx_conversation_pair;size:36" json:"userBId"`
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`
}

// Message 私信消息
type Message struct {
	baseModel.BaseModel
	ConversationID string     `gorm:"index;size:36" json:"conversationId"`
	SenderID       string     `gorm:"size:36" json:"senderId"`
	Content        string     `json:"content"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}
