package domain

import "time"

type MachineType string

const (
	MachineWasher MachineType = "washer"
	MachineDryer  MachineType = "dryer"
)

func (t MachineType) Valid() bool {
	return t == MachineWasher || t == MachineDryer
}

type MachineStatus string

const (
	MachineAvailable   MachineStatus = "available"
	MachineInUse       MachineStatus = "in_use"
	MachineMaintenance MachineStatus = "maintenance"
	MachineOutOfOrder  MachineStatus = "out_of_order"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineAvailable, MachineInUse, MachineMaintenance, MachineOutOfOrder:
		return true
	}
	return false
}

// Bookable reports whether new bookings may be taken for a machine in this
// status. in_use machines stay bookable for later slots.
func (s MachineStatus) Bookable() bool {
	return s == MachineAvailable || s == MachineInUse
}

type Machine struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	HostelID  int64         `json:"hostel_id" gorm:"not null;index" validate:"required"`
	Label     string        `json:"label" gorm:"not null"`
	Type      MachineType   `json:"type" gorm:"type:varchar(8);not null;index" validate:"required"`
	Status    MachineStatus `json:"status" gorm:"type:varchar(16);not null;default:'available';index"`
	CostPerUse int64        `json:"cost_per_use" gorm:"not null" validate:"required,gt=0"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Hostel *Hostel `json:"hostel,omitempty" gorm:"foreignKey:HostelID"`
}

// MaintenanceRecord is one entry of a machine's maintenance history.
type MaintenanceRecord struct {
	ID         int64         `json:"id" gorm:"primaryKey"`
	MachineID  int64         `json:"machine_id" gorm:"not null;index"`
	ReportedBy int64         `json:"reported_by" gorm:"not null"`
	Note       string        `json:"note" gorm:"type:text"`
	FromStatus MachineStatus `json:"from_status" gorm:"type:varchar(16)"`
	ToStatus   MachineStatus `json:"to_status" gorm:"type:varchar(16)"`
	CreatedAt  time.Time     `json:"created_at"`
}
