package booking

import (
	"errors"
	"time"

	"stayhub/internal/domain/shared/daterange"
)

var ErrCheckInInPast = errors.New("booking: check-in date is in the past")

// ValidateDateRange rejects ranges whose check-in day already passed.
// Comparison is at day granularity so same-day check-in stays allowed.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	checkInDay := time.Date(dr.CheckIn.Year(), dr.CheckIn.Month(), dr.CheckIn.Day(), 0, 0, 0, 0, time.UTC)
	if checkInDay.Before(today) {
		return ErrCheckInInPast
	}
	return nil
}
