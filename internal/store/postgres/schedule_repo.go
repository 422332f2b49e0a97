package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/store"
)

// ScheduleRepo persists bookings and availability windows. It implements
// both store.BookingStore and store.AvailabilityStore; the two share one
// per-photographer unit of work because one-off windows are validated
// against the booking set.
type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

type scheduleTx struct {
	tx bun.Tx
}

// InPhotographerTx wraps fn in a transaction holding the photographer's
// advisory lock, serializing all schedule writers for that photographer
// while leaving other photographers unaffected.
func (r *ScheduleRepo) InPhotographerTx(ctx context.Context, photographerID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockPhotographerSchedule(ctx, tx, photographerID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockPhotographerSchedule(ctx context.Context, tx bun.Tx, photographerID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", photographerID.String()).Exec(ctx)
	return err
}

func (r *ScheduleRepo) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
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

func (r *ScheduleRepo) ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error) {
	return r.listBookings(ctx, "client_id", clientID, page, pageSize)
}

func (r *ScheduleRepo) ListByPhotographer(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error) {
	return r.listBookings(ctx, "photographer_id", photographerID, page, pageSize)
}

func (r *ScheduleRepo) listBookings(ctx context.Context, column string, id uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error) {
	var rows []domain.Booking
	total, err := r.db.NewSelect().
		Model(&rows).
		Where("? = ?", bun.Ident(column), id).
		OrderExpr("start_time DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rows, int64(total), nil
}

func (r *ScheduleRepo) GetWindow(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	err := r.db.NewSelect().
		Model(&w).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AvailabilityWindow{}, store.ErrNotFound
		}
		return domain.AvailabilityWindow{}, err
	}
	return w, nil
}

func (r *ScheduleRepo) ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	return listWindows(ctx, r.db, photographerID)
}

// --- unit-of-work methods ---

func (t scheduleTx) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
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

func (t scheduleTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if _, err := t.tx.NewInsert().Model(&b).Exec(ctx); err != nil {
		return domain.Booking{}, mapOverlapConstraint(err)
	}
	return b, nil
}

func (t scheduleTx) UpdateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	res, err := t.tx.NewUpdate().
		Model(&b).
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Booking{}, mapOverlapConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Booking{}, err
	}
	if affected == 0 {
		return domain.Booking{}, store.ErrNotFound
	}
	return b, nil
}

func (t scheduleTx) ListActiveBookings(ctx context.Context, photographerID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := t.tx.NewSelect().
		Model(&rows).
		Where("photographer_id = ?", photographerID).
		Where("status IN (?)", bun.In([]domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed})).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t scheduleTx) ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	return listWindows(ctx, t.tx, photographerID)
}

func (t scheduleTx) CreateWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	if _, err := t.tx.NewInsert().Model(&w).Exec(ctx); err != nil {
		return domain.AvailabilityWindow{}, err
	}
	return w, nil
}

func (t scheduleTx) UpdateWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	res, err := t.tx.NewUpdate().
		Model(&w).
		WherePK().
		Where("photographer_id = ?", w.PhotographerID).
		Exec(ctx)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	if affected == 0 {
		return domain.AvailabilityWindow{}, store.ErrNotFound
	}
	return w, nil
}

func (t scheduleTx) DeleteWindow(ctx context.Context, photographerID, windowID uuid.UUID) error {
	res, err := t.tx.NewDelete().
		Model((*domain.AvailabilityWindow)(nil)).
		Where("id = ?", windowID).
		Where("photographer_id = ?", photographerID).
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

func listWindows(ctx context.Context, db bun.IDB, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := db.NewSelect().
		Model(&rows).
		Where("photographer_id = ?", photographerID).
		OrderExpr("kind ASC, day_of_week ASC NULLS LAST, specific_date ASC NULLS LAST, start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mapOverlapConstraint converts a violation of the bookings_no_overlap
// exclusion constraint into a SlotTakenError. The constraint is a backstop;
// the application check normally reports the conflict first, with the
// conflicting booking id attached.
func mapOverlapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "bookings_no_overlap" {
		return &store.SlotTakenError{}
	}
	return err
}
