package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dormwash/internal/middleware"
	"dormwash/internal/pkg/response"
	"dormwash/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.POST("/staff", h.CreateStaff)
		admin.PATCH("/users/:id/role", h.ChangeRole)
		admin.POST("/users/:id/ban", h.Ban)
		admin.DELETE("/users/:id/ban", h.Unban)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.GET("/dashboard", h.Dashboard)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	var f repository.UserFilter
	f.Role = c.Query("role")
	if v := c.Query("hostel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hostel_id must be an integer")
			return
		}
		f.HostelID = id
	}

	limit, offset := pagination(c)
	users, err := h.service.ListUsers(c.Request.Context(), f, limit, offset)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown role filter")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "email, password (min 8) and name are required")
		return
	}

	u, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": u})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "role is required")
		return
	}

	u, err := h.service.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) Ban(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req BanRequest
	_ = c.ShouldBindJSON(&req)

	u, err := h.service.Ban(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) Unban(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	u, err := h.service.Unban(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrHostelNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, ErrHasActiveBookings):
		response.Error(c, http.StatusConflict, "HAS_ACTIVE_BOOKINGS", err.Error())
	case errors.Is(err, ErrLastAdmin):
		response.Error(c, http.StatusConflict, "LAST_ADMIN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
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
