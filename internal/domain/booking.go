package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// Active statuses block the slot for other bookings.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingInProgress
}

const (
	// Slots are fixed-size buckets inside operating hours.
	SlotMinutes = 30

	// Operating hours, local machine time.
	OpeningHour = 6
	ClosingHour = 22

	// Access codes may be redeemed this long before the slot starts.
	RedeemLeadTime = 5 * time.Minute

	// Students must cancel at least this long before the slot starts.
	CancelLeadTime = time.Hour
)

type Booking struct {
	ID              int64         `json:"id" gorm:"primaryKey"`
	UserID          int64         `json:"user_id" gorm:"not null;index"`
	MachineID       int64         `json:"machine_id" gorm:"not null;index"`
	HostelID        int64         `json:"hostel_id" gorm:"not null;index"`
	StartTime       time.Time     `json:"start_time" gorm:"not null;index"`
	EndTime         time.Time     `json:"end_time" gorm:"not null"`
	DurationMinutes int           `json:"duration_minutes" gorm:"not null"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:'confirmed';index"`
	Amount          int64         `json:"amount" gorm:"not null"`
	AccessCode      string        `json:"access_code,omitempty" gorm:"type:varchar(8)"`
	QRToken         string        `json:"qr_token,omitempty" gorm:"type:varchar(64);index"`
	UsageStartedAt  *time.Time    `json:"usage_started_at,omitempty"`
	UsageEndedAt    *time.Time    `json:"usage_ended_at,omitempty"`
	FeedbackRating  *int          `json:"feedback_rating,omitempty"`
	FeedbackComment string        `json:"feedback_comment,omitempty" gorm:"type:text"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Machine *Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
}

// Overlaps applies the half-open interval test against another window.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
