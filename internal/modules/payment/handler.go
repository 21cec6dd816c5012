package payment

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dormwash/internal/middleware"
	"dormwash/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/order", h.CreateOrder)
		payments.POST("/verify", h.VerifyPayment)
		payments.GET("/orders", h.ListMyOrders)
		payments.POST("/refund", middleware.AdminOnly(), h.Refund)
	}
}

func (h *Handler) CreateOrder(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be a positive integer")
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be a positive integer")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create order")
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	// Keep the raw body for the audit trail, then restore it for binding.
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "order_id, payment_id and signature are required")
		return
	}

	order, err := h.service.VerifyPayment(c.Request.Context(), userID, req, string(raw))
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Order belongs to another user")
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Payment signature verification failed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	limit, offset := pagination(c)
	orders, err := h.service.ListMyOrders(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list orders")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "order_id is required")
		return
	}

	order, err := h.service.Refund(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
		case errors.Is(err, ErrOrderNotPaid):
			response.Error(c, http.StatusConflict, "ORDER_NOT_PAID", "Only paid orders can be refunded")
		case errors.Is(err, ErrInsufficientBalance):
			response.Error(c, http.StatusConflict, "INSUFFICIENT_BALANCE", "Wallet balance is below the refund amount")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refund order")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": order})
}

func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
