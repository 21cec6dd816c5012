package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dormwash/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Conversation returns messages between two users, newest first.
func (r *MessageRepository) Conversation(ctx context.Context, a, b int64, limit, offset int) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// Inbox returns messages received by a user, unread first.
func (r *MessageRepository) Inbox(ctx context.Context, userID int64, limit, offset int) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ?", userID).
		Order("read asc, created_at desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// MarkRead marks a message read; only the receiver may do so. Marking an
// already-read message is a no-op and keeps the original read_at.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID, receiverID int64, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ? AND receiver_id = ? AND read = ?", messageID, receiverID, false).
		Updates(map[string]any{"read": true, "read_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ? AND receiver_id = ?", messageID, receiverID).
		Count(&cnt).Error
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MessageRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&cnt).Error
	return cnt, err
}
