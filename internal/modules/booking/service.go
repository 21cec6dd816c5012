package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"dormwash/internal/domain"
	"dormwash/internal/modules/wallet"
	"dormwash/internal/notification"
	"dormwash/internal/pkg/accesscode"
	"dormwash/internal/repository"
)

type Service struct {
	bookings BookingRepository
	machines MachineReader
	users    UserReader
	mailer   notification.Mailer
	push     PushDispatcher
}

func NewService(
	bookings BookingRepository,
	machines MachineReader,
	users UserReader,
	mailer notification.Mailer,
	push PushDispatcher,
) *Service {
	return &Service{
		bookings: bookings,
		machines: machines,
		users:    users,
		mailer:   mailer,
		push:     push,
	}
}

// GetAvailability returns the free 30- and 60-minute windows of a machine for
// a calendar day.
func (s *Service) GetAvailability(ctx context.Context, machineID int64, dateStr string) (*AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrValidation
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	if _, err := s.machines.GetByID(ctx, machineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	open, close := operatingWindow(day)
	busy, err := s.bookings.ListActiveForMachine(ctx, machineID, open, close)
	if err != nil {
		return nil, err
	}

	slots30 := GenerateDaySlots(day, busy, time.Now().UTC())
	return &AvailabilityResponse{
		MachineID: machineID,
		Date:      dateStr,
		Slots30:   slots30,
		Slots60:   PairAdjacent(slots30),
	}, nil
}

// CreateBooking validates the window, prices it, and commits it atomically
// together with the wallet debit.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.DurationMinutes != domain.SlotMinutes && req.DurationMinutes != 2*domain.SlotMinutes {
		return nil, ErrValidation
	}

	start := req.StartTime.UTC()
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	if !start.After(time.Now().UTC()) {
		return nil, ErrValidation
	}
	if !validWindow(start, end) {
		return nil, ErrValidation
	}

	machine, err := s.machines.GetByID(ctx, req.MachineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !machine.Status.Bookable() {
		return nil, ErrMachineUnavailable
	}

	// Fast-path rejection; ReserveSlot re-checks under a lock before commit.
	ok, err := s.bookings.CheckAvailability(ctx, req.MachineID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAvailable
	}

	code, err := accesscode.Generate()
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		UserID:          userID,
		MachineID:       machine.ID,
		HostelID:        machine.HostelID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: req.DurationMinutes,
		Status:          domain.BookingConfirmed,
		Amount:          machine.CostPerUse * int64(req.DurationMinutes/domain.SlotMinutes),
		AccessCode:      code,
		QRToken:         accesscode.NewQRToken(),
	}

	if err := s.bookings.ReserveSlot(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrNotAvailable
		case errors.Is(err, repository.ErrMachineNotBookable):
			return nil, ErrMachineUnavailable
		case errors.Is(err, wallet.ErrInsufficientFunds):
			return nil, ErrInsufficientBalance
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.mailer != nil {
		if user, uerr := s.users.GetByID(ctx, userID); uerr == nil {
			if merr := s.mailer.SendBookingConfirmation(ctx, user.Email, b.ID, b.AccessCode); merr != nil {
				log.Printf("booking confirmation mail failed booking_id=%d err=%v", b.ID, merr)
			}
		}
	}

	return b, nil
}

// Start redeems an access code or QR token and unlocks the machine. Allowed
// only within [start-5min, end] while the booking is confirmed and the
// machine is free.
func (s *Service) Start(ctx context.Context, userID int64, role domain.UserRole, bookingID int64, req StartBookingRequest) (*domain.Booking, error) {
	b, err := s.lookup(ctx, bookingID, req.QRToken)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID && !role.IsStaffLevel() {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if now.Before(b.StartTime.Add(-domain.RedeemLeadTime)) || now.After(b.EndTime) {
		return nil, ErrOutsideRedeemWindow
	}

	if req.QRToken == "" {
		if req.AccessCode == "" || req.AccessCode != b.AccessCode {
			return nil, ErrInvalidAccessCode
		}
	}

	machine, err := s.machines.GetByID(ctx, b.MachineID)
	if err != nil {
		return nil, err
	}
	if machine.Status != domain.MachineAvailable {
		return nil, ErrMachineUnavailable
	}

	if err := s.bookings.MarkStarted(ctx, b.ID, b.MachineID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// Complete finishes an in-progress booking and frees the machine.
func (s *Service) Complete(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.UserID != userID && !role.IsStaffLevel() {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingInProgress {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if err := s.bookings.MarkCompleted(ctx, b.ID, b.MachineID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	if s.push != nil {
		s.push.Dispatch(notification.PushJob{
			UserID: b.UserID,
			Title:  "Laundry done",
			Body:   "Your laundry cycle is complete. Please collect your clothes.",
		})
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// Cancel cancels a confirmed booking and refunds the wallet. Students must
// cancel at least one hour before the slot starts; staff and admins are
// exempt.
func (s *Service) Cancel(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.UserID != userID && !role.IsStaffLevel() {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if !role.IsStaffLevel() && b.StartTime.Sub(now) < domain.CancelLeadTime {
		return nil, ErrCancelTooLate
	}

	if err := s.bookings.CancelWithRefund(ctx, b, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, err
	}

	if s.mailer != nil {
		if user, uerr := s.users.GetByID(ctx, b.UserID); uerr == nil {
			if merr := s.mailer.SendBookingCancellation(ctx, user.Email, b.ID, b.Amount); merr != nil {
				log.Printf("booking cancellation mail failed booking_id=%d err=%v", b.ID, merr)
			}
		}
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// SaveFeedback records a rating on a completed booking; owner only.
func (s *Service) SaveFeedback(ctx context.Context, userID, bookingID int64, req FeedbackRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if b.UserID != userID {
		return ErrForbidden
	}
	if b.Status != domain.BookingCompleted {
		return ErrInvalidStatusTransition
	}

	if err := s.bookings.SaveFeedback(ctx, bookingID, req.Rating, req.Comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidStatusTransition
		}
		return err
	}
	return nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) GetMachineBookings(ctx context.Context, machineID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByMachine(ctx, machineID, limit, offset)
}

func (s *Service) GetHostelBookings(ctx context.Context, hostelID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByHostel(ctx, hostelID, limit, offset)
}

func (s *Service) GetAllBookings(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx, limit, offset)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) lookup(ctx context.Context, bookingID int64, qrToken string) (*domain.Booking, error) {
	var (
		b   *domain.Booking
		err error
	)
	if qrToken != "" {
		b, err = s.bookings.GetByQRToken(ctx, qrToken)
	} else {
		b, err = s.bookings.GetByID(ctx, bookingID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
