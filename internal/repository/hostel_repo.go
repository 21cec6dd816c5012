package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"dormwash/internal/domain"
)

type HostelRepository struct {
	db *gorm.DB
}

func NewHostelRepository(db *gorm.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

func (r *HostelRepository) Create(ctx context.Context, h *domain.Hostel) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HostelRepository) GetByID(ctx context.Context, id int64) (*domain.Hostel, error) {
	var h domain.Hostel
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *HostelRepository) GetByName(ctx context.Context, name string) (*domain.Hostel, error) {
	var h domain.Hostel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *HostelRepository) List(ctx context.Context) ([]domain.Hostel, error) {
	var out []domain.Hostel
	err := r.db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

func (r *HostelRepository) Update(ctx context.Context, h *domain.Hostel) error {
	res := r.db.WithContext(ctx).Model(&domain.Hostel{}).Where("id = ?", h.ID).
		Updates(map[string]any{"name": h.Name, "location": h.Location})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HostelRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Hostel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
