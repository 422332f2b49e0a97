package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/store"
)

// ReviewRepo persists reviews and keeps the photographer rating aggregate in
// step with them.
type ReviewRepo struct {
	db *bun.DB
}

func NewReviewRepo(db *bun.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

type reviewTx struct {
	tx bun.Tx
}

// InPhotographerTx serializes review mutations per photographer with the
// same advisory lock the schedule uses, so two concurrent aggregate
// recomputes cannot commit a stale value over each other.
func (r *ReviewRepo) InPhotographerTx(ctx context.Context, photographerID uuid.UUID, fn func(ctx context.Context, tx store.ReviewTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockPhotographerSchedule(ctx, tx, photographerID); err != nil {
			return err
		}
		return fn(ctx, reviewTx{tx: tx})
	})
}

func (r *ReviewRepo) GetReview(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	return getReview(ctx, r.db, id)
}

func (r *ReviewRepo) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := r.db.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *ReviewRepo) GetPhotographer(ctx context.Context, id uuid.UUID) (domain.Photographer, error) {
	var p domain.Photographer
	err := r.db.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Photographer{}, store.ErrNotFound
		}
		return domain.Photographer{}, err
	}
	return p, nil
}

func (r *ReviewRepo) ListByPhotographer(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error) {
	return r.listReviews(ctx, "photographer_id", photographerID, page, pageSize)
}

func (r *ReviewRepo) ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Review, int64, error) {
	return r.listReviews(ctx, "client_id", clientID, page, pageSize)
}

func (r *ReviewRepo) listReviews(ctx context.Context, column string, id uuid.UUID, page, pageSize int) ([]domain.Review, int64, error) {
	var rows []domain.Review
	total, err := r.db.NewSelect().
		Model(&rows).
		Where("? = ?", bun.Ident(column), id).
		OrderExpr("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rows, int64(total), nil
}

// --- unit-of-work methods ---

func (t reviewTx) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := t.tx.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (t reviewTx) GetReview(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	return getReview(ctx, t.tx, id)
}

func (t reviewTx) GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (domain.Review, error) {
	var rev domain.Review
	err := t.tx.NewSelect().
		Model(&rev).
		Where("booking_id = ?", bookingID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, store.ErrNotFound
		}
		return domain.Review{}, err
	}
	return rev, nil
}

func (t reviewTx) CreateReview(ctx context.Context, rev domain.Review) (domain.Review, error) {
	if _, err := t.tx.NewInsert().Model(&rev).Exec(ctx); err != nil {
		return domain.Review{}, err
	}
	return rev, nil
}

func (t reviewTx) UpdateReview(ctx context.Context, rev domain.Review) (domain.Review, error) {
	res, err := t.tx.NewUpdate().
		Model(&rev).
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Review{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Review{}, err
	}
	if affected == 0 {
		return domain.Review{}, store.ErrNotFound
	}
	return rev, nil
}

func (t reviewTx) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.NewDelete().
		Model((*domain.Review)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RecomputePhotographerRating rewrites the aggregate from the full current
// review set inside the same transaction as the triggering mutation.
func (t reviewTx) RecomputePhotographerRating(ctx context.Context, photographerID uuid.UUID) error {
	_, err := t.tx.NewRaw(`
		UPDATE photographers SET
			rating = agg.avg_rating,
			review_count = agg.cnt,
			updated_at = now()
		FROM (
			SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS cnt
			FROM reviews
			WHERE photographer_id = ?
		) AS agg
		WHERE id = ?`, photographerID, photographerID).Exec(ctx)
	return err
}

func getReview(ctx context.Context, db bun.IDB, id uuid.UUID) (domain.Review, error) {
	var rev domain.Review
	err := db.NewSelect().
		Model(&rev).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, store.ErrNotFound
		}
		return domain.Review{}, err
	}
	return rev, nil
}
