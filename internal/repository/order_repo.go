package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.GatewayOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.GatewayOrder, error) {
	var o domain.GatewayOrder
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkPaidIdempotent transitions created or failed orders to paid and reports
// whether this call performed the transition. Paid and refunded orders are
// terminal for this path, so callback replays (including replays after an
// admin refund) never credit the wallet again.
func (r *OrderRepository) MarkPaidIdempotent(ctx context.Context, orderID, paymentRef, rawBody string, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.GatewayOrder{}).
		Where("order_id = ? AND status IN ?", orderID, []string{string(domain.OrderCreated), string(domain.OrderFailed)}).
		Updates(map[string]any{
			"status":       domain.OrderPaid,
			"payment_ref":  paymentRef,
			"raw_callback": rawBody,
			"paid_at":      paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepository) MarkFailed(ctx context.Context, orderID, reason, rawBody string) error {
	return r.db.WithContext(ctx).Model(&domain.GatewayOrder{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"status":         domain.OrderFailed,
			"failure_reason": reason,
			"raw_callback":   rawBody,
		}).Error
}

// Refund flips a paid order to refunded and claws the credited amount back
// from the wallet in the same transaction, mirroring the booking cancel flow.
// A wallet balance below the order amount rolls the whole refund back.
func (r *OrderRepository) Refund(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.GatewayOrder
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).
			First(&o).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if o.Status != domain.OrderPaid {
			return ErrNotFound
		}

		if err := tx.Model(&domain.GatewayOrder{}).
			Where("id = ?", o.ID).
			Update("status", domain.OrderRefunded).Error; err != nil {
			return err
		}

		_, _, err = wallet.DebitTx(tx, o.UserID, o.Amount, o.OrderID)
		return err
	})
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.GatewayOrder, error) {
	var out []domain.GatewayOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// PaidTotal sums successfully captured top-ups, for admin dashboards.
func (r *OrderRepository) PaidTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.GatewayOrder{}).
		Where("status = ?", domain.OrderPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
