package wallet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dormwash/internal/domain"
)

const (
	TransactionTypeAdd    = "ADD"
	TransactionTypeSpend  = "SPEND"
	TransactionTypeRefund = "REFUND"
)

// Wallet stores a user's prepaid balance.
type Wallet struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID  int64     `json:"user_id" gorm:"not null;uniqueIndex"`
	Balance int64     `json:"balance" gorm:"not null;default:0"`

	User *domain.User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Transaction records balance operations.
type Transaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WalletID  uuid.UUID `json:"wallet_id" gorm:"type:uuid;not null;index"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null;index;check:type IN ('ADD','SPEND','REFUND')"`
	Reference string    `json:"reference,omitempty" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Wallet *Wallet `json:"wallet,omitempty" gorm:"foreignKey:WalletID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Migrate applies the wallet schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Wallet{}, &Transaction{})
}
