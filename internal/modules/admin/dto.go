package admin

type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	HostelID *int64 `json:"hostel_id"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type BanRequest struct {
	Reason string `json:"reason"`
}

type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	Students          int64 `json:"students"`
	Staff             int64 `json:"staff"`
	TotalMachines     int64 `json:"total_machines"`
	TotalBookings     int64 `json:"total_bookings"`
	ActiveBookings    int64 `json:"active_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	Revenue           int64 `json:"revenue"`
}
