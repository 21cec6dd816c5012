package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db)
}

func TestGetOrCreateWalletCreatesOnFirstRequest(t *testing.T) {
	svc := setupTestService(t)

	wallet, err := svc.GetOrCreateWallet(context.Background(), 1001)
	if err != nil {
		t.Fatalf("GetOrCreateWallet returned error: %v", err)
	}
	if wallet.Balance != 0 {
		t.Fatalf("expected zero initial balance, got %d", wallet.Balance)
	}

	again, err := svc.GetOrCreateWallet(context.Background(), 1001)
	if err != nil {
		t.Fatalf("GetOrCreateWallet second call returned error: %v", err)
	}
	if wallet.ID != again.ID {
		t.Fatalf("expected same wallet id, got %s and %s", wallet.ID, again.ID)
	}
}

func TestCreditAndDebitFlow(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	wallet, addTxn, err := svc.Credit(ctx, 101, 150, TransactionTypeAdd, "order_1")
	if err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}
	if wallet.Balance != 150 {
		t.Fatalf("expected balance 150, got %d", wallet.Balance)
	}
	if addTxn.Type != TransactionTypeAdd {
		t.Fatalf("expected txn type %s, got %s", TransactionTypeAdd, addTxn.Type)
	}

	err = svc.db.Transaction(func(tx *gorm.DB) error {
		w, spendTxn, err := DebitTx(tx, 101, 40, "booking_5")
		if err != nil {
			return err
		}
		if w.Balance != 110 {
			t.Fatalf("expected balance 110, got %d", w.Balance)
		}
		if spendTxn.Type != TransactionTypeSpend {
			t.Fatalf("expected txn type %s, got %s", TransactionTypeSpend, spendTxn.Type)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("DebitTx returned error: %v", err)
	}

	txns, err := svc.ListTransactions(ctx, 101)
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
}

func TestDebitTxInsufficientFundsRollsBack(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Credit(ctx, 102, 15, TransactionTypeAdd, "seed"); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := DebitTx(tx, 102, 20, "booking_9")
		return err
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	wallet, err := svc.GetOrCreateWallet(ctx, 102)
	if err != nil {
		t.Fatalf("GetOrCreateWallet returned error: %v", err)
	}
	if wallet.Balance != 15 {
		t.Fatalf("expected untouched balance 15, got %d", wallet.Balance)
	}
}

func TestCreditTxRefundRestoresBalance(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Credit(ctx, 103, 100, TransactionTypeAdd, "seed"); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	err := svc.db.Transaction(func(tx *gorm.DB) error {
		if _, _, err := DebitTx(tx, 103, 40, "booking_7"); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("DebitTx returned error: %v", err)
	}

	err = svc.db.Transaction(func(tx *gorm.DB) error {
		w, txn, err := CreditTx(tx, 103, 40, TransactionTypeRefund, "booking_cancel")
		if err != nil {
			return err
		}
		if w.Balance != 100 {
			t.Fatalf("expected balance restored to 100, got %d", w.Balance)
		}
		if txn.Type != TransactionTypeRefund {
			t.Fatalf("expected txn type %s, got %s", TransactionTypeRefund, txn.Type)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("CreditTx returned error: %v", err)
	}
}

func TestListTransactionsCreatesEmptyWallet(t *testing.T) {
	svc := setupTestService(t)

	txns, err := svc.ListTransactions(context.Background(), 999)
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected 0 transactions, got %d", len(txns))
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc := setupTestService(t)
	_, _, err := svc.Credit(context.Background(), 104, 0, TransactionTypeAdd, "")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDebitTxRejectsNonPositiveAmount(t *testing.T) {
	svc := setupTestService(t)
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		_, _, err := DebitTx(tx, 105, -1, "")
		return err
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
