package hostel

import "dormwash/internal/domain"

type UpsertHostelRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

// HostelView is a hostel with its machine counts derived at read time.
type HostelView struct {
	domain.Hostel
	Counts domain.HostelCounts `json:"counts"`
}
