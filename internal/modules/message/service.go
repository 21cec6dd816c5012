package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type Service struct {
	messages MessageRepository
	users    UserReader
	hub      *Hub
}

func NewService(messages MessageRepository, users UserReader, hub *Hub) *Service {
	return &Service{messages: messages, users: users, hub: hub}
}

// Send persists a message and pushes it to the receiver's websocket if
// one is connected.
func (s *Service) Send(ctx context.Context, senderID int64, req SendMessageRequest) (*domain.Message, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" || len(body) > 2000 {
		return nil, ErrValidation
	}
	if req.ReceiverID == senderID {
		return nil, ErrSelfMessage
	}

	if _, err := s.users.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	m := &domain.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       body,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.SendToUser(m.ReceiverID, WSEvent{Type: "message.new", Payload: m})
	}

	return m, nil
}

func (s *Service) Conversation(ctx context.Context, userID, otherID int64, limit, offset int) ([]domain.Message, error) {
	return s.messages.Conversation(ctx, userID, otherID, limit, offset)
}

func (s *Service) Inbox(ctx context.Context, userID int64, limit, offset int) ([]domain.Message, error) {
	return s.messages.Inbox(ctx, userID, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, userID, messageID int64) error {
	err := s.messages.MarkRead(ctx, messageID, userID, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.messages.UnreadCount(ctx, userID)
}
