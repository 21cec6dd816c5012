package wallet

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) GetOrCreateWallet(ctx context.Context, userID int64) (*Wallet, error) {
	wallet, err := s.getWalletByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &Wallet{UserID: userID, Balance: 0}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.getWalletByUserID(ctx, userID)
		}
		return nil, err
	}
	return wallet, nil
}

// Credit adds funds outside of any caller transaction (admin adjustments,
// gateway callbacks).
func (s *Service) Credit(ctx context.Context, userID int64, amount int64, txnType, reference string) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var wallet Wallet
	var txn Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, t, err := CreditTx(tx, userID, amount, txnType, reference)
		if err != nil {
			return err
		}
		wallet, txn = *w, *t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &wallet, &txn, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]Transaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var txns []Transaction
	if err := s.db.WithContext(ctx).Where("wallet_id = ?", wallet.ID).Order("created_at desc").Find(&txns).Error; err != nil {
		return nil, err
	}

	return txns, nil
}

// DebitTx spends funds inside the caller's transaction. The wallet row is
// locked for the duration of tx so a concurrent booking cannot double-spend.
func DebitTx(tx *gorm.DB, userID int64, amount int64, reference string) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var wallet Wallet
	if err := getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
		return nil, nil, err
	}

	if wallet.Balance < amount {
		return nil, nil, ErrInsufficientFunds
	}

	wallet.Balance -= amount
	if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", wallet.Balance).Error; err != nil {
		return nil, nil, err
	}

	txn := Transaction{WalletID: wallet.ID, Amount: amount, Type: TransactionTypeSpend, Reference: reference}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, nil, err
	}
	return &wallet, &txn, nil
}

// CreditTx adds funds inside the caller's transaction.
func CreditTx(tx *gorm.DB, userID int64, amount int64, txnType, reference string) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if txnType != TransactionTypeAdd && txnType != TransactionTypeRefund {
		txnType = TransactionTypeAdd
	}

	var wallet Wallet
	if err := getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
		return nil, nil, err
	}

	wallet.Balance += amount
	if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", wallet.Balance).Error; err != nil {
		return nil, nil, err
	}

	txn := Transaction{WalletID: wallet.ID, Amount: amount, Type: txnType, Reference: reference}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, nil, err
	}
	return &wallet, &txn, nil
}

func (s *Service) getWalletByUserID(ctx context.Context, userID int64) (*Wallet, error) {
	var wallet Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func getOrCreateWalletForUpdate(tx *gorm.DB, userID int64, wallet *Wallet) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		*wallet = Wallet{UserID: userID, Balance: 0}
		if err := tx.Create(wallet).Error; err != nil {
			if isUniqueConstraintError(err) {
				return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error
			}
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
