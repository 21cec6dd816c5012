package message

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dormwash/internal/pkg/jwt"
	"dormwash/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend host is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	service *Service
	hub     *Hub
	jwt     *jwt.Service
}

func NewHandler(service *Service, hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{service: service, hub: hub, jwt: jwtService}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	{
		messages.POST("", h.Send)
		messages.GET("/inbox", h.Inbox)
		messages.GET("/unread-count", h.UnreadCount)
		messages.GET("/with/:user_id", h.Conversation)
		messages.POST("/:id/read", h.MarkRead)
	}
}

// RegisterWS mounts the websocket endpoint. Auth is via ?token= because
// browsers cannot set headers on websocket upgrades.
func (h *Handler) RegisterWS(r *gin.Engine) {
	r.GET("/ws", h.WebSocket)
}

func (h *Handler) Send(c *gin.Context) {
	senderID := c.GetInt64("user_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "receiver_id and body are required")
		return
	}

	msg, err := h.service.Send(c.Request.Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrSelfMessage):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrReceiverNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Receiver not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) Inbox(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, offset := pagination(c)

	msgs, err := h.service.Inbox(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load inbox")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) Conversation(c *gin.Context) {
	userID := c.GetInt64("user_id")

	otherID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	limit, offset := pagination(c)
	msgs, err := h.service.Conversation(c.Request.Context(), userID, otherID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load conversation")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, messageID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Message not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark message read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	cnt, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count unread messages")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unread": cnt})
}

// WebSocket upgrades the connection and keeps it registered in the hub
// until the client goes away.
func (h *Handler) WebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token query parameter is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	userID := claims.UserID
	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	go pingLoop(conn)

	// Read loop only services control frames; messages are sent over REST.
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}

// pingLoop keeps the connection alive. WriteControl is safe alongside the
// hub's data writes, so pings never contend with message delivery.
func pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		deadline := time.Now().Add(10 * time.Second)
		if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			return
		}
	}
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
