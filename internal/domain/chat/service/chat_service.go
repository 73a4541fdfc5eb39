package service

import (
	"errors"

	"connectcampus/internal/domain/chat/model"
	"connectcampus/internal/domain/chat/repository"
	userRepo "connectcampus/internal/domain/user/repository"
	"connectcampus/internal/pkg/worker"
)

var (
	// ErrNotParticipant 不是会话参与者
	ErrNotParticipant = errors.New("not a participant of this conversation")
	// ErrSelfMessage 不能给自己发私信
	ErrSelfMessage = errors.New("cannot message yourself")
)

type ChatService interface {
	SendMessage(senderID, recipientID, content string) (*model.Message, error)
	GetConversations(userID string, page, limit int) ([]model.Conversation, int64, error)
	GetMessages(userID, conversationID string, page, limit int) ([]model.Message, int64, error)
	MarkRead(userID, conversationID string) error
}

type chatService struct {
	repo  repository.ChatRepository
	users userRepo.UserRepository
}

func NewChatService(repo repository.ChatRepository, users userRepo.UserRepository) ChatService {
	return &chatService{repo: repo, users: users}
}

// SendMessage 发私信。会话不存在时自动创建，收件人收到异步推送。
func (s *chatService) SendMessage(senderID, recipientID, content string) (*model.Message, error) {
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	// 确认收件人存在
	if _, err := s.users.GetByID(recipientID); err != nil {
		return nil, err
	}

	conversation, err := s.repo.GetOrCreateConversation(senderID, recipientID)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.repo.CreateMessage(message); err != nil {
		return nil, err
	}

	worker.Notify(recipientID, "新消息", content, map[string]string{
		"type":           "message",
		"conversationId": conversation.ID,
	})

	return message, nil
}

func (s *chatService) GetConversations(userID string, page, limit int) ([]model.Conversation, int64, error) {
	offset := (page - 1) * limit
	return s.repo.GetConversations(userID, offset, limit)
}

// GetMessages 读会话消息，只有参与者可见
func (s *chatService) GetMessages(userID, conversationID string, page, limit int) ([]model.Message, int64, error) {
	if err := s.checkParticipant(userID, conversationID); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	return s.repo.GetMessages(conversationID, offset, limit)
}

func (s *chatService) MarkRead(userID, conversationID string) error {
	if err := s.checkParticipant(userID, conversationID); err != nil {
		return err
	}
	return s.repo.MarkRead(conversationID, userID)
}

func (s *chatService) checkParticipant(userID, conversationID string) error {
	conversation, err := s.repo.GetConversationByID(conversationID)
	if err != nil {
		return err
	}
	if conversation.UserAID != userID && conversation.UserBID != userID {
		return ErrNotParticipant
	}
	return nil
}
