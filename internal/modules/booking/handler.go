package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dormwash/internal/domain"
	"dormwash/internal/middleware"
	"dormwash/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking endpoints. cacheMW, when not nil, is
// applied to the read-heavy availability endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, cacheMW gin.HandlerFunc) {
	if cacheMW == nil {
		cacheMW = func(c *gin.Context) { c.Next() }
	}

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/me", h.ListMyBookings)
		bookings.GET("/availability", cacheMW, h.GetAvailability)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/start", h.StartBooking)
		bookings.POST("/:id/complete", h.CompleteBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/feedback", h.SaveFeedback)
	}

	rg.GET("/machines/:id/bookings", middleware.StaffOnly(), h.ListMachineBookings)
	rg.GET("/hostels/:id/bookings", middleware.StaffOnly(), h.ListHostelBookings)
	rg.GET("/admin/bookings", middleware.AdminOnly(), h.ListAllBookings)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	machineID, err := strconv.ParseInt(c.Query("machine_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid machine_id")
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing date")
		return
	}

	avail, err := h.service.GetAvailability(c.Request.Context(), machineID, date)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, avail)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))
	if b.UserID != userID && !role.IsStaffLevel() {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) StartBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req StartBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Start(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.Complete(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), domain.UserRole(c.GetString("role")), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) SaveFeedback(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SaveFeedback(c.Request.Context(), c.GetInt64("user_id"), id, req); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.service.GetMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListMachineBookings(c *gin.Context) {
	machineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid machine ID")
		return
	}

	limit, offset := pagination(c)
	list, err := h.service.GetMachineBookings(c.Request.Context(), machineID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListHostelBookings(c *gin.Context) {
	hostelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hostel ID")
		return
	}

	limit, offset := pagination(c)
	list, err := h.service.GetHostelBookings(c.Request.Context(), hostelID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListAllBookings(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.service.GetAllBookings(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or machine not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Slot is not available for the selected time")
	case errors.Is(err, ErrInsufficientBalance):
		response.Error(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Wallet balance too low for this booking")
	case errors.Is(err, ErrMachineUnavailable):
		response.Error(c, http.StatusConflict, "MACHINE_UNAVAILABLE", "Machine cannot be used right now")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Booking is not in a valid state for this action")
	case errors.Is(err, ErrInvalidAccessCode):
		response.Error(c, http.StatusBadRequest, "INVALID_ACCESS_CODE", "Access code does not match")
	case errors.Is(err, ErrOutsideRedeemWindow):
		response.Error(c, http.StatusBadRequest, "OUTSIDE_WINDOW", "Access code can only be used from 5 minutes before the slot until it ends")
	case errors.Is(err, ErrCancelTooLate):
		response.Error(c, http.StatusBadRequest, "CANCEL_TOO_LATE", "Bookings must be cancelled at least 1 hour before start")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
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
