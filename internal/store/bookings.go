package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lenscal/backend/internal/domain"
)

// ScheduleTx is the unit of work for a single photographer's schedule. All
// reads and writes made through it commit or roll back together, and no
// other schedule mutation for the same photographer can interleave with it.
type ScheduleTx interface {
	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error)
	UpdateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// ListActiveBookings returns the photographer's pending and confirmed
	// bookings intersecting [windowStart, windowEnd).
	ListActiveBookings(ctx context.Context, photographerID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Booking, error)

	ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error)
	CreateWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	UpdateWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, photographerID, windowID uuid.UUID) error
}

type BookingStore interface {
	// InPhotographerTx runs fn inside an atomic unit that serializes all
	// schedule mutations for the given photographer. Returning an error
	// rolls the unit back.
	InPhotographerTx(ctx context.Context, photographerID uuid.UUID, fn func(ctx context.Context, tx ScheduleTx) error) error

	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error)
	ListByPhotographer(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error)
}
