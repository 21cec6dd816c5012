package booking

import "time"

type CreateBookingRequest struct {
	MachineID       int64     `json:"machine_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required,halfhour"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,cycle"`
}

type StartBookingRequest struct {
	AccessCode string `json:"access_code"`
	QRToken    string `json:"qr_token"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AvailabilityResponse lists the bookable windows of a machine for one day.
type AvailabilityResponse struct {
	MachineID int64      `json:"machine_id"`
	Date      string     `json:"date"`
	Slots30   []TimeSlot `json:"slots_30"`
	Slots60   []TimeSlot `json:"slots_60"`
}
