package store

import (
	"context"

	"github.com/google/uuid"

	"lenscal/backend/internal/domain"
)

// ReviewTx is the unit of work for review mutations. The rating aggregate
// recompute happens through it so a committed review is never observable
// without its effect on the photographer's aggregate.
type ReviewTx interface {
	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	GetReview(ctx context.Context, id uuid.UUID) (domain.Review, error)
	GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (domain.Review, error)
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	UpdateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error

	// RecomputePhotographerRating rewrites the photographer's rating and
	// review count from the full current review set.
	RecomputePhotographerRating(ctx context.Context, photographerID uuid.UUID) error
}

type ReviewStore interface {
	// InPhotographerTx serializes review mutations per photographer so two
	// concurrent recomputes cannot race each other to a stale aggregate.
	InPhotographerTx(ctx context.Context, photographerID uuid.UUID, fn func(ctx context.Context, tx ReviewTx) error) error

	GetReview(ctx context.Context, id uuid.UUID) (domain.Review, error)
	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListByPhotographer(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error)
	GetPhotographer(ctx context.Context, id uuid.UUID) (domain.Photographer, error)
}
