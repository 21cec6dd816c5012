package domain

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaffLevel reports whether the role may manage machines and bookings
// beyond its own.
func (r UserRole) IsStaffLevel() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	Email               string     `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash        string     `json:"-" gorm:"not null"`
	Name                string     `json:"name" gorm:"not null"`
	Phone               string     `json:"phone,omitempty"`
	Role                UserRole   `json:"role" gorm:"type:varchar(16);not null;default:'student';index"`
	HostelID            *int64     `json:"hostel_id,omitempty" gorm:"index"`
	RoomNumber          string     `json:"room_number,omitempty" gorm:"type:varchar(16)"`
	IsBanned            bool       `json:"is_banned" gorm:"not null;default:false"`
	BanReason           string     `json:"ban_reason,omitempty" gorm:"type:text"`
	FailedLoginAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil         *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Hostel *Hostel `json:"hostel,omitempty" gorm:"foreignKey:HostelID"`
}
