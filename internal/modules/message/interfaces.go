package message

import (
	"context"
	"time"

	"dormwash/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	Conversation(ctx context.Context, a, b int64, limit, offset int) ([]domain.Message, error)
	Inbox(ctx context.Context, userID int64, limit, offset int) ([]domain.Message, error)
	MarkRead(ctx context.Context, messageID, receiverID int64, now time.Time) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
