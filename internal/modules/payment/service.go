package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dormwash/internal/config"
	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
	"dormwash/internal/repository"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrOrderNotPaid        = errors.New("order not paid")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientBalance = errors.New("wallet balance below refund amount")
)

type Service struct {
	orders  orderRepo
	wallets walletCreditor
	loggerf func(format string, args ...interface{})

	keyID     string
	keySecret string
	currency  string
}

func NewService(orders orderRepo, wallets walletCreditor, cfg config.GatewayConfig, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		orders:    orders,
		wallets:   wallets,
		loggerf:   loggerf,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
	}
}

// CreateOrder registers a wallet top-up order with the gateway. The client
// completes checkout against the gateway and posts the signed result back to
// VerifyPayment.
func (s *Service) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if req.Amount <= 0 {
		return nil, ErrValidation
	}
	if s.keyID == "" || s.keySecret == "" {
		return nil, fmt.Errorf("payment gateway credentials are not configured")
	}

	orderID := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	o := &domain.GatewayOrder{
		OrderID:  orderID,
		UserID:   userID,
		Amount:   req.Amount,
		Currency: s.currency,
		Receipt:  fmt.Sprintf("topup_%d_%d", userID, time.Now().Unix()),
		Status:   domain.OrderCreated,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("save order failed: %w", err)
	}

	return &CreateOrderResponse{
		OrderID:  orderID,
		Amount:   req.Amount,
		Currency: s.currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPayment checks the gateway signature and credits the wallet exactly
// once per order.
func (s *Service) VerifyPayment(ctx context.Context, userID int64, req VerifyPaymentRequest, rawBody string) (*domain.GatewayOrder, error) {
	o, err := s.orders.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}

	valid := s.verifySignature(req.OrderID, req.PaymentID, req.Signature)
	s.loggerf("level=info msg=gateway signature validation order_id=%s signature_valid=%t", req.OrderID, valid)
	if !valid {
		if err := s.orders.MarkFailed(ctx, req.OrderID, "invalid signature", rawBody); err != nil {
			s.loggerf("level=error msg=failed to mark order failed order_id=%s err=%v", req.OrderID, err)
		}
		return nil, ErrInvalidSignature
	}

	changed, err := s.orders.MarkPaidIdempotent(ctx, req.OrderID, req.PaymentID, rawBody, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if changed {
		if _, _, err := s.wallets.Credit(ctx, o.UserID, o.Amount, wallet.TransactionTypeAdd, req.OrderID); err != nil {
			s.loggerf("level=error msg=wallet credit failed order_id=%s err=%v", req.OrderID, err)
			return nil, err
		}
	} else {
		s.loggerf("level=info msg=idempotent callback already paid order_id=%s", req.OrderID)
	}

	return s.orders.GetByOrderID(ctx, req.OrderID)
}

// Refund reverses a paid top-up. Admin only. The order flip and the wallet
// debit happen in one repository transaction, so the credited amount is
// clawed back as a SPEND entry or the refund does not happen at all.
func (s *Service) Refund(ctx context.Context, req RefundRequest) (*domain.GatewayOrder, error) {
	o, err := s.orders.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.Status != domain.OrderPaid {
		return nil, ErrOrderNotPaid
	}

	if err := s.orders.Refund(ctx, req.OrderID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrOrderNotPaid
		case errors.Is(err, wallet.ErrInsufficientFunds):
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	return s.orders.GetByOrderID(ctx, req.OrderID)
}

func (s *Service) ListMyOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.GatewayOrder, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// verifySignature applies the gateway's HMAC-SHA256 over "order_id|payment_id".
func (s *Service) verifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
