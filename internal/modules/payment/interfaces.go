package payment

import (
	"context"
	"time"

	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
)

type orderRepo interface {
	Create(ctx context.Context, o *domain.GatewayOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.GatewayOrder, error)
	MarkPaidIdempotent(ctx context.Context, orderID, paymentRef, rawBody string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, orderID, reason, rawBody string) error
	Refund(ctx context.Context, orderID string) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.GatewayOrder, error)
}

type walletCreditor interface {
	Credit(ctx context.Context, userID int64, amount int64, txnType, reference string) (*wallet.Wallet, *wallet.Transaction, error)
}
