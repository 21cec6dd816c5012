package wallet

import (
	"errors"
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
	wallets := rg.Group("/wallet")
	{
		wallets.GET("/me", h.GetMyWallet)
		wallets.GET("/me/transactions", h.ListMyTransactions)
		wallets.POST("/credit/:user_id", middleware.AdminOnly(), h.CreditUser)
	}
}

type amountRequest struct {
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Reference string `json:"reference"`
}

func (h *Handler) GetMyWallet(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	wallet, err := h.service.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": wallet.Balance})
}

func (h *Handler) ListMyTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	txns, err := h.service.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list transactions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}

// CreditUser is an admin-only manual balance adjustment.
func (h *Handler) CreditUser(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	wallet, txn, err := h.service.Credit(c.Request.Context(), targetID, req.Amount, TransactionTypeAdd, req.Reference)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to credit wallet")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet, "transaction": txn})
}
