package repository

import (
	"errors"
	"time"

	"connectcampus/internal/domain/chat/model"

	"gorm.io/gorm"
)

// ChatRepository 接口定义
type ChatRepository interface {
	GetOrCreateConversation(userAID, userBID string) (*model.Conversation, error)
	GetConversationByID(id string) (*model.Conversation, error)
	GetConversations(userID string, offset, limit int) ([]model.Conversation, int64, error)

	CreateMessage(message *model.Message) error
	GetMessages(conversationID string, offset, limit int) ([]model.Message, int64, error)
	MarkRead(conversationID, readerID string) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建新的仓库实例
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// GetOrCreateConversation 取出两个账号的会话，没有则建一条。
// 参与者按字典序归一化，保证 (a,b) 和 (b,a) 命中同一条。
func (r *chatRepository) GetOrCreateConversation(userAID, userBID string) (*model.Conversation, error) {
	if userAID > userBID {
		userAID, userBID = userBID, userAID
	}

	var conversation model.Conversation
	err := r.db.Where("user_a_id = ? AND user_b_id = ?", userAID, userBID).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = model.Conversation{
		UserAID:       userAID,
		UserBID:       userBID,
		LastMessageAt: time.Now(),
	}
	if err := r.db.Create(&conversation).Error; err != nil {
		// 并发双方同时发第一条消息时可能撞唯一键，重查一次
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if qErr := r.db.Where("user_a_id = ? AND user_b_id = ?", userAID, userBID).First(&conversation).Error; qErr == nil {
				return &conversation, nil
			}
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *chatRepository) GetConversationByID(id string) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.Where("id = ?", id).First(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *chatRepository) GetConversations(userID string, offset, limit int) ([]model.Conversation, int64, error) {
	var conversations []model.Conversation
	var total int64

	query := r.db.Model(&model.Conversation{}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("last_message_at desc").Offset(offset).Limit(limit).Find(&conversations).Error; err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

// CreateMessage 写消息并刷新会话的最后消息时间
func (r *chatRepository) CreateMessage(message *model.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).Where("id = ?", message.ConversationID).
			UpdateColumn("last_message_at", time.Now()).Error
	})
}

func (r *chatRepository) GetMessages(conversationID string, offset, limit int) ([]model.Message, int64, error) {
	var messages []model.Message
	var total int64

	query := r.db.Model(&model.Message{}).Where("conversation_id = ?", conversationID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 最新的在前，客户端倒序渲染
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead 把会话里对方发的未读消息全部标记已读
func (r *chatRepository) MarkRead(conversationID, readerID string) error {
	return r.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		UpdateColumn("read_at", time.Now()).Error
}
