package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrNotAvailable = errors.New("requested time is outside declared availability")

	ErrDuplicateReview = errors.New("booking has already been reviewed")
	ErrNotEligible     = errors.New("booking is not eligible for review")

	ErrWindowOverlap         = errors.New("availability window overlaps an existing window")
	ErrWindowBookingConflict = errors.New("availability window conflicts with an existing booking")
	ErrPastDate              = errors.New("specific date cannot be in the past")
)

// SlotTakenError reports that a competing pending or confirmed booking
// already occupies the requested interval. ConflictingBookingID is zero when
// the conflict was detected by the database exclusion constraint rather than
// the application check.
type SlotTakenError struct {
	ConflictingBookingID uuid.UUID
}

func (e *SlotTakenError) Error() string {
	if e.ConflictingBookingID == uuid.Nil {
		return "photographer is not available at the requested time"
	}
	return fmt.Sprintf("photographer is not available at the requested time (conflicts with booking %s)", e.ConflictingBookingID)
}
