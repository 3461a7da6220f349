package services

import (
	"errors"
	"time"
)

// ErrInvalidDateRange is returned when check-out is not after check-in.
var ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

// TruncateToDay normalizes a timestamp to midnight UTC. Stays are billed in
// whole nights, so time-of-day components never leak into pricing or into
// the overlap checks.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of whole nights between check-in and check-out.
func Nights(checkIn, checkOut time.Time) (int, error) {
	in := TruncateToDay(checkIn)
	out := TruncateToDay(checkOut)
	if !out.After(in) {
		return 0, ErrInvalidDateRange
	}
	return int(out.Sub(in).Hours() / 24), nil
}

// ComputeTotal returns nights × nightlyRate for the stay.
func ComputeTotal(nightlyRate float64, checkIn, checkOut time.Time) (float64, error) {
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	return float64(nights) * nightlyRate, nil
}
