package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dormwash/internal/config"
	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
	"dormwash/internal/repository"
)

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, o *domain.GatewayOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.GatewayOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayOrder), args.Error(1)
}

func (m *MockOrderRepo) MarkPaidIdempotent(ctx context.Context, orderID, paymentRef, rawBody string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, orderID, paymentRef, rawBody, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepo) MarkFailed(ctx context.Context, orderID, reason, rawBody string) error {
	args := m.Called(ctx, orderID, reason, rawBody)
	return args.Error(0)
}

func (m *MockOrderRepo) Refund(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.GatewayOrder, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.GatewayOrder), args.Error(1)
}

type MockWalletCreditor struct {
	mock.Mock
}

func (m *MockWalletCreditor) Credit(ctx context.Context, userID int64, amount int64, txnType, reference string) (*wallet.Wallet, *wallet.Transaction, error) {
	args := m.Called(ctx, userID, amount, txnType, reference)
	return nil, nil, args.Error(2)
}

func testGatewayConfig() config.GatewayConfig {
	return config.GatewayConfig{
		KeyID:     "key_test_1",
		KeySecret: "top-secret",
		Currency:  "INR",
	}
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder(t *testing.T) {
	orders := new(MockOrderRepo)
	svc := NewService(orders, new(MockWalletCreditor), testGatewayConfig(), nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.GatewayOrder) bool {
		return o.UserID == 42 && o.Amount == 100 && o.Status == domain.OrderCreated
	})).Return(nil)

	resp, err := svc.CreateOrder(context.Background(), 42, CreateOrderRequest{Amount: 100})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, int64(100), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "key_test_1", resp.KeyID)
	orders.AssertExpectations(t)
}

func TestCreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(new(MockOrderRepo), new(MockWalletCreditor), testGatewayConfig(), nil)

	_, err := svc.CreateOrder(context.Background(), 42, CreateOrderRequest{Amount: 0})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyPayment_ValidSignatureCreditsWallet(t *testing.T) {
	orders := new(MockOrderRepo)
	wallets := new(MockWalletCreditor)
	svc := NewService(orders, wallets, testGatewayConfig(), nil)

	order := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderCreated}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(order, nil)
	orders.On("MarkPaidIdempotent", mock.Anything, "order_x", "pay_1", mock.Anything, mock.Anything).Return(true, nil)
	wallets.On("Credit", mock.Anything, int64(42), int64(100), wallet.TransactionTypeAdd, "order_x").Return(nil, nil, nil)

	_, err := svc.VerifyPayment(context.Background(), 42, VerifyPaymentRequest{
		OrderID:   "order_x",
		PaymentID: "pay_1",
		Signature: sign("top-secret", "order_x", "pay_1"),
	}, "{}")

	assert.NoError(t, err)
	wallets.AssertExpectations(t)
}

func TestVerifyPayment_InvalidSignatureMarksFailed(t *testing.T) {
	orders := new(MockOrderRepo)
	wallets := new(MockWalletCreditor)
	svc := NewService(orders, wallets, testGatewayConfig(), nil)

	order := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderCreated}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(order, nil)
	orders.On("MarkFailed", mock.Anything, "order_x", "invalid signature", mock.Anything).Return(nil)

	_, err := svc.VerifyPayment(context.Background(), 42, VerifyPaymentRequest{
		OrderID:   "order_x",
		PaymentID: "pay_1",
		Signature: "deadbeef",
	}, "{}")

	assert.ErrorIs(t, err, ErrInvalidSignature)
	wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}

func TestVerifyPayment_DuplicateCallbackCreditsOnce(t *testing.T) {
	orders := new(MockOrderRepo)
	wallets := new(MockWalletCreditor)
	svc := NewService(orders, wallets, testGatewayConfig(), nil)

	order := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderPaid}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(order, nil)
	// Second callback: the status guard matched no rows.
	orders.On("MarkPaidIdempotent", mock.Anything, "order_x", "pay_1", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.VerifyPayment(context.Background(), 42, VerifyPaymentRequest{
		OrderID:   "order_x",
		PaymentID: "pay_1",
		Signature: sign("top-secret", "order_x", "pay_1"),
	}, "{}")

	assert.NoError(t, err)
	wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_OtherUsersOrderForbidden(t *testing.T) {
	orders := new(MockOrderRepo)
	svc := NewService(orders, new(MockWalletCreditor), testGatewayConfig(), nil)

	order := &domain.GatewayOrder{OrderID: "order_x", UserID: 7, Amount: 100, Status: domain.OrderCreated}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(order, nil)

	_, err := svc.VerifyPayment(context.Background(), 42, VerifyPaymentRequest{
		OrderID:   "order_x",
		PaymentID: "pay_1",
		Signature: sign("top-secret", "order_x", "pay_1"),
	}, "{}")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVerifyPayment_UppercaseSignatureAccepted(t *testing.T) {
	orders := new(MockOrderRepo)
	wallets := new(MockWalletCreditor)
	svc := NewService(orders, wallets, testGatewayConfig(), nil)

	order := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderCreated}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(order, nil)
	orders.On("MarkPaidIdempotent", mock.Anything, "order_x", "pay_1", mock.Anything, mock.Anything).Return(true, nil)
	wallets.On("Credit", mock.Anything, int64(42), int64(100), wallet.TransactionTypeAdd, "order_x").Return(nil, nil, nil)

	upper := sign("top-secret", "order_x", "pay_1")
	_, err := svc.VerifyPayment(context.Background(), 42, VerifyPaymentRequest{
		OrderID:   "order_x",
		PaymentID: "pay_1",
		Signature: strings.ToUpper(upper),
	}, "{}")

	assert.NoError(t, err)
}

func TestRefund(t *testing.T) {
	orders := new(MockOrderRepo)
	svc := NewService(orders, new(MockWalletCreditor), testGatewayConfig(), nil)

	paid := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderPaid}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(paid, nil)
	orders.On("Refund", mock.Anything, "order_x").Return(nil)

	_, err := svc.Refund(context.Background(), RefundRequest{OrderID: "order_x"})

	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestRefund_SpentBalanceRejected(t *testing.T) {
	orders := new(MockOrderRepo)
	svc := NewService(orders, new(MockWalletCreditor), testGatewayConfig(), nil)

	paid := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderPaid}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(paid, nil)
	orders.On("Refund", mock.Anything, "order_x").Return(wallet.ErrInsufficientFunds)

	_, err := svc.Refund(context.Background(), RefundRequest{OrderID: "order_x"})

	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestRefund_UnpaidOrderRejected(t *testing.T) {
	orders := new(MockOrderRepo)
	svc := NewService(orders, new(MockWalletCreditor), testGatewayConfig(), nil)

	created := &domain.GatewayOrder{OrderID: "order_x", UserID: 42, Amount: 100, Status: domain.OrderCreated}
	orders.On("GetByOrderID", mock.Anything, "order_x").Return(created, nil)

	_, err := svc.Refund(context.Background(), RefundRequest{OrderID: "order_x"})

	assert.ErrorIs(t, err, ErrOrderNotPaid)
	orders.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestRefund_UnknownOrder(t *testing.T) {
	orders := new(MockOrderRepo)
	svc := NewService(orders, new(MockWalletCreditor), testGatewayConfig(), nil)

	orders.On("GetByOrderID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.Refund(context.Background(), RefundRequest{OrderID: "missing"})

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
