package domain

import "time"

type Hostel struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HostelCounts is derived on read instead of being stored as denormalized
// columns; see MachineRepository.CountsByHostel.
type HostelCounts struct {
	TotalMachines     int64 `json:"total_machines"`
	Washers           int64 `json:"washers"`
	Dryers            int64 `json:"dryers"`
	AvailableMachines int64 `json:"available_machines"`
}
