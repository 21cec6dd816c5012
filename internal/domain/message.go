package domain

import "time"

type Message struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	SenderID   int64      `json:"sender_id" gorm:"not null;index"`
	ReceiverID int64      `json:"receiver_id" gorm:"not null;index"`
	Body       string     `json:"body" gorm:"type:text;not null"`
	Read       bool       `json:"read" gorm:"not null;default:false"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Sender   *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Receiver *User `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
}
