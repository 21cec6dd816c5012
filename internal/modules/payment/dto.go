package payment

type CreateOrderRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type RefundRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}
