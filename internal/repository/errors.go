package repository

import "errors"

var (
	// ErrSlotTaken is returned when the requested window overlaps an active
	// booking at commit time.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrMachineNotBookable is returned when the machine is in maintenance or
	// out of order at commit time.
	ErrMachineNotBookable = errors.New("machine not bookable")

	ErrNotFound = errors.New("record not found")
)
