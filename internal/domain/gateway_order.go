package domain

import "time"

type GatewayOrderStatus string

const (
	OrderCreated  GatewayOrderStatus = "created"
	OrderPaid     GatewayOrderStatus = "paid"
	OrderFailed   GatewayOrderStatus = "failed"
	OrderRefunded GatewayOrderStatus = "refunded"
)

// GatewayOrder tracks a wallet top-up order at the payment gateway.
type GatewayOrder struct {
	ID            int64              `json:"id" gorm:"primaryKey"`
	OrderID       string             `json:"order_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID        int64              `json:"user_id" gorm:"not null;index"`
	Amount        int64              `json:"amount" gorm:"not null"`
	Currency      string             `json:"currency" gorm:"type:varchar(8);not null;default:'INR'"`
	Receipt       string             `json:"receipt" gorm:"type:varchar(64)"`
	Status        GatewayOrderStatus `json:"status" gorm:"type:varchar(16);not null;default:'created';index"`
	PaymentRef    string             `json:"payment_ref,omitempty" gorm:"type:varchar(64)"`
	FailureReason string             `json:"failure_reason,omitempty" gorm:"type:text"`
	RawCallback   string             `json:"-" gorm:"type:text"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (GatewayOrder) TableName() string { return "gateway_orders" }
