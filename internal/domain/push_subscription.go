package domain

import "time"

// PushSubscription stores a browser web-push subscription.
type PushSubscription struct {
	Endpoint  string    `json:"endpoint" gorm:"primaryKey"`
	P256DH    string    `json:"p256dh" gorm:"not null"`
	Auth      string    `json:"auth" gorm:"not null"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
