package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dormwash/internal/domain"
)

type PushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// Upsert stores a browser subscription, replacing keys for a re-subscribed
// endpoint.
func (r *PushSubscriptionRepository) Upsert(ctx context.Context, s *domain.PushSubscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(s).Error
}

func (r *PushSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.PushSubscription, error) {
	var out []domain.PushSubscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error
	return out, err
}

func (r *PushSubscriptionRepository) Delete(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&domain.PushSubscription{}).Error
}
