package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
)

func seedOrder(t *testing.T, db *gorm.DB, userID, amount int64) *domain.GatewayOrder {
	t.Helper()
	o := &domain.GatewayOrder{
		OrderID:  "order_test_1",
		UserID:   userID,
		Amount:   amount,
		Currency: "INR",
		Receipt:  "topup_test",
		Status:   domain.OrderCreated,
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func walletBalance(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	w, err := wallet.NewService(db).GetOrCreateWallet(context.Background(), userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w.Balance
}

func TestMarkPaidIdempotent_FirstCallbackOnly(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	o := seedOrder(t, db, 42, 100)

	changed, err := repo.MarkPaidIdempotent(context.Background(), o.OrderID, "pay_1", "{}", time.Now().UTC())
	if err != nil {
		t.Fatalf("MarkPaidIdempotent returned error: %v", err)
	}
	if !changed {
		t.Fatal("expected the first callback to flip the order to paid")
	}

	changed, err = repo.MarkPaidIdempotent(context.Background(), o.OrderID, "pay_1", "{}", time.Now().UTC())
	if err != nil {
		t.Fatalf("replayed MarkPaidIdempotent returned error: %v", err)
	}
	if changed {
		t.Fatal("replayed callback must not report a transition")
	}
}

func TestMarkPaidIdempotent_ReplayAfterRefundStaysRefunded(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	o := seedOrder(t, db, 42, 100)

	if _, err := repo.MarkPaidIdempotent(context.Background(), o.OrderID, "pay_1", "{}", time.Now().UTC()); err != nil {
		t.Fatalf("MarkPaidIdempotent: %v", err)
	}
	fundWallet(t, db, 42, 100)
	if err := repo.Refund(context.Background(), o.OrderID); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if got := walletBalance(t, db, 42); got != 0 {
		t.Fatalf("expected balance 0 after refund, got %d", got)
	}

	// The gateway replays the original, validly-signed callback.
	changed, err := repo.MarkPaidIdempotent(context.Background(), o.OrderID, "pay_1", "{}", time.Now().UTC())
	if err != nil {
		t.Fatalf("replayed MarkPaidIdempotent returned error: %v", err)
	}
	if changed {
		t.Fatal("refunded order must not flip back to paid on a replayed callback")
	}

	got, err := repo.GetByOrderID(context.Background(), o.OrderID)
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if got.Status != domain.OrderRefunded {
		t.Fatalf("expected status refunded, got %s", got.Status)
	}
	if bal := walletBalance(t, db, 42); bal != 0 {
		t.Fatalf("expected balance to stay 0, got %d", bal)
	}
}

func TestRefund_DebitsWalletInSameTransaction(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	o := seedOrder(t, db, 42, 100)

	if _, err := repo.MarkPaidIdempotent(context.Background(), o.OrderID, "pay_1", "{}", time.Now().UTC()); err != nil {
		t.Fatalf("MarkPaidIdempotent: %v", err)
	}
	fundWallet(t, db, 42, 100)

	if err := repo.Refund(context.Background(), o.OrderID); err != nil {
		t.Fatalf("Refund returned error: %v", err)
	}

	if got := walletBalance(t, db, 42); got != 0 {
		t.Fatalf("expected balance 0 after refund, got %d", got)
	}

	var spends int64
	if err := db.Model(&wallet.Transaction{}).Where("type = ? AND reference = ?", wallet.TransactionTypeSpend, o.OrderID).Count(&spends).Error; err != nil {
		t.Fatalf("count spend transactions: %v", err)
	}
	if spends != 1 {
		t.Fatalf("expected exactly one SPEND transaction for the refund, got %d", spends)
	}

	// Second refund attempt: the order is no longer paid.
	if err := repo.Refund(context.Background(), o.OrderID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double refund, got %v", err)
	}
	if got := walletBalance(t, db, 42); got != 0 {
		t.Fatalf("double refund must not touch the balance, got %d", got)
	}
}

func TestRefund_SpentBalanceRollsBack(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepository(db)
	o := seedOrder(t, db, 42, 100)

	if _, err := repo.MarkPaidIdempotent(context.Background(), o.OrderID, "pay_1", "{}", time.Now().UTC()); err != nil {
		t.Fatalf("MarkPaidIdempotent: %v", err)
	}
	// The user already spent most of the top-up.
	fundWallet(t, db, 42, 40)

	if err := repo.Refund(context.Background(), o.OrderID); !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	got, err := repo.GetByOrderID(context.Background(), o.OrderID)
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if got.Status != domain.OrderPaid {
		t.Fatalf("failed refund must leave the order paid, got %s", got.Status)
	}
	if bal := walletBalance(t, db, 42); bal != 40 {
		t.Fatalf("failed refund must leave the balance untouched, got %d", bal)
	}
}
