package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BookingStatus is the lifecycle state of a booking. Reschedules are
// modelled as time-changing updates of a confirmed booking, not as a
// distinct status.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions is the closed transition table. Absent pairs are illegal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0 && s.IsValid()
}

// IsActive reports whether the booking occupies its time slot for conflict
// purposes.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s BookingStatus) String() string { return string(s) }

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status %q", s)
	}
	return status, nil
}

// InvalidTransitionError reports an illegal lifecycle move.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// ShootType is the kind of photography session being booked.
type ShootType string

const (
	ShootPortrait   ShootType = "portrait"
	ShootWedding    ShootType = "wedding"
	ShootCommercial ShootType = "commercial"
	ShootEvent      ShootType = "event"
	ShootProduct    ShootType = "product"
	ShootLandscape  ShootType = "landscape"
	ShootFashion    ShootType = "fashion"
	ShootOther      ShootType = "other"
)

var shootTypes = map[ShootType]struct{}{
	ShootPortrait: {}, ShootWedding: {}, ShootCommercial: {}, ShootEvent: {},
	ShootProduct: {}, ShootLandscape: {}, ShootFashion: {}, ShootOther: {},
}

func (t ShootType) IsValid() bool {
	_, ok := shootTypes[t]
	return ok
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Business rules enforced independent of the transition table.
const (
	MinBookingDuration   = time.Hour
	MaxBookingDuration   = 8 * time.Hour
	MinBookingNotice     = 24 * time.Hour
	CancellationLeadTime = 24 * time.Hour
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID              uuid.UUID     `bun:"id,pk,type:uuid" json:"id"`
	ClientID        uuid.UUID     `bun:"client_id,notnull,type:uuid" json:"client_id"`
	PhotographerID  uuid.UUID     `bun:"photographer_id,notnull,type:uuid" json:"photographer_id"`
	StartTime       time.Time     `bun:"start_time,notnull" json:"start_time"`
	EndTime         time.Time     `bun:"end_time,notnull" json:"end_time"`
	Status          BookingStatus `bun:"status,notnull" json:"status"`
	ShootType       ShootType     `bun:"shoot_type,notnull" json:"shoot_type"`
	Location        string        `bun:"location,notnull" json:"location"`
	SpecialRequests string        `bun:"special_requests" json:"special_requests,omitempty"`
	TotalPriceCents int64         `bun:"total_price_cents,notnull" json:"total_price_cents"`
	PaymentStatus   PaymentStatus `bun:"payment_status,notnull" json:"payment_status"`
	CreatedAt       time.Time     `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt       time.Time     `bun:"updated_at,notnull" json:"updated_at"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

func (b *Booking) Interval() TimeInterval {
	return TimeInterval{Start: b.StartTime.UTC(), End: b.EndTime.UTC()}
}

// TransitionTo moves the booking to the target status, enforcing the
// transition table. Time-based cancellation rules are checked by the caller.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{From: b.Status, To: target}
	}
	b.Status = target
	return nil
}

// CancellableAt reports whether the cancellation lead time is still met at
// the given instant.
func (b *Booking) CancellableAt(now time.Time) bool {
	return !now.UTC().After(b.StartTime.UTC().Add(-CancellationLeadTime))
}

var ErrInvalidDuration = errors.New("invalid booking duration")

// ValidateDuration checks the 1h–8h booking duration bound.
func ValidateDuration(i TimeInterval) error {
	d := i.Duration()
	if d < MinBookingDuration {
		return fmt.Errorf("%w: minimum booking duration is %s", ErrInvalidDuration, MinBookingDuration)
	}
	if d > MaxBookingDuration {
		return fmt.Errorf("%w: maximum booking duration is %s", ErrInvalidDuration, MaxBookingDuration)
	}
	return nil
}
