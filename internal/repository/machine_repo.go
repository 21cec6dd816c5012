package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dormwash/internal/domain"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(ctx context.Context, m *domain.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MachineRepository) GetByID(ctx context.Context, id int64) (*domain.Machine, error) {
	var m domain.Machine
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MachineFilter narrows listings by type and status.
type MachineFilter struct {
	Type   string
	Status string
}

func (r *MachineRepository) ListByHostel(ctx context.Context, hostelID int64, f MachineFilter) ([]domain.Machine, error) {
	q := r.db.WithContext(ctx).Where("hostel_id = ?", hostelID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var out []domain.Machine
	err := q.Order("label asc").Find(&out).Error
	return out, err
}

func (r *MachineRepository) Update(ctx context.Context, m *domain.Machine) error {
	res := r.db.WithContext(ctx).Model(&domain.Machine{}).Where("id = ?", m.ID).
		Updates(map[string]any{"label": m.Label, "type": m.Type, "cost_per_use": m.CostPerUse, "hostel_id": m.HostelID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus records the transition together with a maintenance log entry.
func (r *MachineRepository) SetStatus(ctx context.Context, machineID, actorID int64, to domain.MachineStatus, note string) (*domain.Machine, error) {
	var m domain.Machine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, machineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		rec := domain.MaintenanceRecord{
			MachineID:  machineID,
			ReportedBy: actorID,
			Note:       note,
			FromStatus: m.Status,
			ToStatus:   to,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}

		m.Status = to
		return tx.Model(&domain.Machine{}).Where("id = ?", machineID).Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MachineRepository) ListMaintenance(ctx context.Context, machineID int64) ([]domain.MaintenanceRecord, error) {
	var out []domain.MaintenanceRecord
	err := r.db.WithContext(ctx).Where("machine_id = ?", machineID).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *MachineRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Machine{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MachineRepository) CountByHostel(ctx context.Context, hostelID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Machine{}).Where("hostel_id = ?", hostelID).Count(&cnt).Error
	return cnt, err
}

// CountsByHostel derives the aggregate machine counts on read instead of
// maintaining denormalized columns on the hostel row.
func (r *MachineRepository) CountsByHostel(ctx context.Context, hostelID int64) (*domain.HostelCounts, error) {
	var counts domain.HostelCounts
	base := r.db.WithContext(ctx).Model(&domain.Machine{}).Where("hostel_id = ?", hostelID)

	if err := base.Session(&gorm.Session{}).Count(&counts.TotalMachines).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("type = ?", domain.MachineWasher).Count(&counts.Washers).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("type = ?", domain.MachineDryer).Count(&counts.Dryers).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", domain.MachineAvailable).Count(&counts.AvailableMachines).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *MachineRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Machine{}).Count(&cnt).Error
	return cnt, err
}
