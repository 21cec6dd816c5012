package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dormwash/internal/domain"
	"dormwash/internal/pkg/response"
	"dormwash/internal/repository"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// Handler exposes the web-push subscription endpoints.
type Handler struct {
	subs           *repository.PushSubscriptionRepository
	vapidPublicKey string
}

func NewHandler(subs *repository.PushSubscriptionRepository, vapidPublicKey string) *Handler {
	return &Handler{subs: subs, vapidPublicKey: vapidPublicKey}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	push := rg.Group("/push")
	{
		push.GET("/vapid-key", h.VapidKey)
		push.PUT("/subscription", h.PutSubscription)
		push.DELETE("/subscription", h.DeleteSubscription)
	}
}

func (h *Handler) VapidKey(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"public_key": h.vapidPublicKey})
}

func (h *Handler) PutSubscription(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "endpoint, p256dh and auth are required")
		return
	}

	sub := &domain.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		UserID:   userID,
	}
	if err := h.subs.Upsert(c.Request.Context(), sub); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store subscription")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"subscribed": true})
}

func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "endpoint is required")
		return
	}

	if err := h.subs.Delete(c.Request.Context(), req.Endpoint); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete subscription")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
