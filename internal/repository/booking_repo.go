package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CheckAvailability reports whether the half-open window [start, end) is free
// of confirmed/in-progress bookings for the machine.
func (r *BookingRepository) CheckAvailability(ctx context.Context, machineID int64, start, end time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("machine_id = ?", machineID).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingInProgress)}).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// ReserveSlot commits a new booking atomically: the machine row is locked,
// the overlap test is re-run under the lock, the wallet is debited, and the
// booking row is inserted. Any failure rolls the whole sequence back.
func (r *BookingRepository) ReserveSlot(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var machine domain.Machine
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&machine, b.MachineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !machine.Status.Bookable() {
			return ErrMachineNotBookable
		}

		var cnt int64
		if err := tx.Model(&domain.Booking{}).
			Where("machine_id = ?", b.MachineID).
			Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingInProgress)}).
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrSlotTaken
		}

		if _, _, err := wallet.DebitTx(tx, b.UserID, b.Amount, "booking"); err != nil {
			return err
		}

		return tx.Create(b).Error
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByQRToken(ctx context.Context, token string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("qr_token = ?", token).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListActiveForMachine returns confirmed/in-progress bookings touching the
// window, ordered by start time.
func (r *BookingRepository) ListActiveForMachine(ctx context.Context, machineID int64, from, to time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingInProgress)}).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time asc").
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Where("user_id = ?", userID).
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByMachine(ctx context.Context, machineID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("machine_id = ?", machineID).
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByHostel(ctx context.Context, hostelID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("User").
		Where("hostel_id = ?", hostelID).
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("User").
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// MarkStarted flips the booking to in_progress and the machine to in_use in
// one transaction.
func (r *BookingRepository) MarkStarted(ctx context.Context, bookingID, machineID int64, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", bookingID, domain.BookingConfirmed).
			Updates(map[string]any{"status": domain.BookingInProgress, "usage_started_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&domain.Machine{}).
			Where("id = ?", machineID).
			Update("status", domain.MachineInUse).Error
	})
}

// MarkCompleted flips the booking to completed and frees the machine.
func (r *BookingRepository) MarkCompleted(ctx context.Context, bookingID, machineID int64, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", bookingID, domain.BookingInProgress).
			Updates(map[string]any{"status": domain.BookingCompleted, "usage_ended_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&domain.Machine{}).
			Where("id = ? AND status = ?", machineID, domain.MachineInUse).
			Update("status", domain.MachineAvailable).Error
	})
}

// CancelWithRefund cancels a confirmed booking and credits the exact amount
// back to the owner's wallet in the same transaction.
func (r *BookingRepository) CancelWithRefund(ctx context.Context, b *domain.Booking, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", b.ID, domain.BookingConfirmed).
			Updates(map[string]any{"status": domain.BookingCancelled, "cancelled_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		_, _, err := wallet.CreditTx(tx, b.UserID, b.Amount, wallet.TransactionTypeRefund, "booking_cancel")
		return err
	})
}

func (r *BookingRepository) SaveFeedback(ctx context.Context, bookingID int64, rating int, comment string) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, domain.BookingCompleted).
		Updates(map[string]any{"feedback_rating": rating, "feedback_comment": comment})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) CountActiveForMachine(ctx context.Context, machineID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("machine_id = ?", machineID).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingInProgress)}).
		Count(&cnt).Error
	return cnt, err
}

func (r *BookingRepository) CountActiveForUser(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingInProgress)}).
		Count(&cnt).Error
	return cnt, err
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&cnt).Error
	return cnt, err
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("status = ?", string(status)).
		Count(&cnt).Error
	return cnt, err
}
