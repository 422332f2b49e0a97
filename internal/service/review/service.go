// Package review handles client reviews of completed bookings and keeps the
// photographer's rating aggregate transactionally consistent with the review
// set.
package review

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/store"
)

const (
	maxCommentLen = 1000

	defaultPageSize = 10
	maxPageSize     = 100
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

type Service struct {
	repo store.ReviewStore
	log  *zap.Logger
}

func NewService(repo store.ReviewStore, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.Named("review"),
	}
}

type CreateReviewInput struct {
	BookingID   uuid.UUID
	ClientID    uuid.UUID
	Rating      int
	Comment     string
	IsAnonymous bool
}

// CreateReview records a review for a completed booking. Eligibility, the
// one-review-per-booking rule and the rating aggregate recompute all run in
// one unit of work, so a committed review is never visible without its
// effect on the photographer's rating.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (domain.Review, error) {
	if in.BookingID == uuid.Nil {
		return domain.Review{}, validationError("booking_id is required")
	}
	if in.ClientID == uuid.Nil {
		return domain.Review{}, validationError("client_id is required")
	}
	if err := domain.ValidateRating(in.Rating); err != nil {
		return domain.Review{}, validationError(err.Error())
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > maxCommentLen {
		return domain.Review{}, validationError("comment must be at most 1000 characters")
	}

	// Read outside the unit of work to learn which photographer to lock;
	// eligibility is re-checked once the lock is held.
	booking, err := s.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return domain.Review{}, err
	}

	var created domain.Review
	err = s.repo.InPhotographerTx(ctx, booking.PhotographerID, func(ctx context.Context, tx store.ReviewTx) error {
		b, err := tx.GetBooking(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if b.ClientID != in.ClientID {
			return store.ErrForbidden
		}
		if b.Status != domain.StatusCompleted {
			return store.ErrNotEligible
		}

		if _, err := tx.GetReviewByBooking(ctx, in.BookingID); err == nil {
			return store.ErrDuplicateReview
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		created, err = tx.CreateReview(ctx, domain.Review{
			BookingID:      in.BookingID,
			ClientID:       in.ClientID,
			PhotographerID: b.PhotographerID,
			Rating:         in.Rating,
			Comment:        comment,
			IsAnonymous:    in.IsAnonymous,
		})
		if err != nil {
			return err
		}
		return tx.RecomputePhotographerRating(ctx, b.PhotographerID)
	})
	if err != nil {
		return domain.Review{}, err
	}

	s.log.Info("review created",
		zap.String("review_id", created.ID.String()),
		zap.String("booking_id", created.BookingID.String()),
		zap.Int("rating", created.Rating),
	)
	return created, nil
}

type UpdateReviewInput struct {
	ReviewID uuid.UUID
	ClientID uuid.UUID

	Rating      *int
	Comment     *string
	IsAnonymous *bool
}

// UpdateReview lets the authoring client revise their review. A rating
// change recomputes the aggregate in the same unit of work.
func (s *Service) UpdateReview(ctx context.Context, in UpdateReviewInput) (domain.Review, error) {
	if in.ReviewID == uuid.Nil {
		return domain.Review{}, validationError("review id is required")
	}
	if in.Rating != nil {
		if err := domain.ValidateRating(*in.Rating); err != nil {
			return domain.Review{}, validationError(err.Error())
		}
	}

	current, err := s.repo.GetReview(ctx, in.ReviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if current.ClientID != in.ClientID {
		return domain.Review{}, store.ErrForbidden
	}

	var updated domain.Review
	err = s.repo.InPhotographerTx(ctx, current.PhotographerID, func(ctx context.Context, tx store.ReviewTx) error {
		rev, err := tx.GetReview(ctx, in.ReviewID)
		if err != nil {
			return err
		}
		if rev.ClientID != in.ClientID {
			return store.ErrForbidden
		}

		ratingChanged := false
		if in.Rating != nil && *in.Rating != rev.Rating {
			rev.Rating = *in.Rating
			ratingChanged = true
		}
		if in.Comment != nil {
			comment := strings.TrimSpace(*in.Comment)
			if len(comment) > maxCommentLen {
				return validationError("comment must be at most 1000 characters")
			}
			rev.Comment = comment
		}
		if in.IsAnonymous != nil {
			rev.IsAnonymous = *in.IsAnonymous
		}

		updated, err = tx.UpdateReview(ctx, rev)
		if err != nil {
			return err
		}
		if ratingChanged {
			return tx.RecomputePhotographerRating(ctx, rev.PhotographerID)
		}
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}

	s.log.Info("review updated", zap.String("review_id", updated.ID.String()))
	return updated, nil
}

// DeleteReview removes a review and recomputes the aggregate. Allowed for
// the authoring client and for admins.
func (s *Service) DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, role domain.Role) error {
	if reviewID == uuid.Nil {
		return validationError("review id is required")
	}

	current, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && !(role == domain.RoleClient && current.ClientID == actorID) {
		return store.ErrForbidden
	}

	err = s.repo.InPhotographerTx(ctx, current.PhotographerID, func(ctx context.Context, tx store.ReviewTx) error {
		rev, err := tx.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if err := tx.DeleteReview(ctx, reviewID); err != nil {
			return err
		}
		return tx.RecomputePhotographerRating(ctx, rev.PhotographerID)
	})
	if err != nil {
		return err
	}

	s.log.Info("review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

func (s *Service) GetReview(ctx context.Context, reviewID uuid.UUID) (domain.Review, error) {
	return s.repo.GetReview(ctx, reviewID)
}

func (s *Service) ListPhotographerReviews(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	reviews, total, err := s.repo.ListByPhotographer(ctx, photographerID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	// Anonymous reviews keep their rating public but hide the author.
	for i := range reviews {
		if reviews[i].IsAnonymous {
			reviews[i].ClientID = uuid.Nil
		}
	}
	return reviews, total, nil
}

func (s *Service) ListClientReviews(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListByClient(ctx, clientID, page, pageSize)
}

func (s *Service) GetPhotographer(ctx context.Context, photographerID uuid.UUID) (domain.Photographer, error) {
	return s.repo.GetPhotographer(ctx, photographerID)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
