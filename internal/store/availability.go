package store

import (
	"context"

	"github.com/google/uuid"

	"lenscal/backend/internal/domain"
)

// AvailabilityStore reads and mutates a photographer's declared windows.
// Mutations go through the same per-photographer unit of work as bookings,
// since one-off windows are validated against the active booking set.
type AvailabilityStore interface {
	InPhotographerTx(ctx context.Context, photographerID uuid.UUID, fn func(ctx context.Context, tx ScheduleTx) error) error

	GetWindow(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error)
	ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error)
}
