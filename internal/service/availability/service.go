// Package availability manages a photographer's declared open windows.
// Window mutations share the photographer's schedule unit of work so a
// window cannot be shrunk or removed while a booking that depends on it is
// being created.
package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/store"
)

// bookingLookahead bounds how far ahead window mutations are checked
// against existing bookings.
const bookingLookahead = 365 * 24 * time.Hour

// ValidationError reports rejected window input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

type Service struct {
	repo store.AvailabilityStore
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo store.AvailabilityStore, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.Named("availability"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type WindowInput struct {
	PhotographerID uuid.UUID
	ActorID        uuid.UUID
	ActorRole      domain.Role

	Kind         string
	DayOfWeek    string
	SpecificDate *time.Time
	StartTime    string
	EndTime      string
}

// CreateWindow declares a new open window. Windows of the same kind on the
// same day must not overlap each other.
func (s *Service) CreateWindow(ctx context.Context, in WindowInput) (domain.AvailabilityWindow, error) {
	if err := s.authorize(in.PhotographerID, in.ActorID, in.ActorRole); err != nil {
		return domain.AvailabilityWindow{}, err
	}
	w, err := s.buildWindow(in)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}

	var created domain.AvailabilityWindow
	err = s.repo.InPhotographerTx(ctx, in.PhotographerID, func(ctx context.Context, tx store.ScheduleTx) error {
		existing, err := tx.ListWindows(ctx, in.PhotographerID)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].OverlapsWindow(&w) {
				return store.ErrWindowOverlap
			}
		}
		created, err = tx.CreateWindow(ctx, w)
		return err
	})
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}

	s.log.Info("availability window created",
		zap.String("window_id", created.ID.String()),
		zap.String("photographer_id", created.PhotographerID.String()),
		zap.String("kind", string(created.Kind)),
	)
	return created, nil
}

// UpdateWindow replaces a window's recurrence target and clock range. The
// change is rejected if it would leave an upcoming active booking outside
// every remaining window.
func (s *Service) UpdateWindow(ctx context.Context, windowID uuid.UUID, in WindowInput) (domain.AvailabilityWindow, error) {
	if err := s.authorize(in.PhotographerID, in.ActorID, in.ActorRole); err != nil {
		return domain.AvailabilityWindow{}, err
	}
	replacement, err := s.buildWindow(in)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}

	var updated domain.AvailabilityWindow
	err = s.repo.InPhotographerTx(ctx, in.PhotographerID, func(ctx context.Context, tx store.ScheduleTx) error {
		existing, err := tx.ListWindows(ctx, in.PhotographerID)
		if err != nil {
			return err
		}
		remaining := make([]domain.AvailabilityWindow, 0, len(existing))
		found := false
		for i := range existing {
			if existing[i].ID == windowID {
				found = true
				continue
			}
			remaining = append(remaining, existing[i])
		}
		if !found {
			return store.ErrNotFound
		}
		for i := range remaining {
			if remaining[i].OverlapsWindow(&replacement) {
				return store.ErrWindowOverlap
			}
		}
		if err := s.checkBookingsCovered(ctx, tx, in.PhotographerID, append(remaining, replacement)); err != nil {
			return err
		}

		replacement.ID = windowID
		updated, err = tx.UpdateWindow(ctx, replacement)
		return err
	})
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}

	s.log.Info("availability window updated", zap.String("window_id", updated.ID.String()))
	return updated, nil
}

// DeleteWindow removes a window, rejecting the removal if an upcoming active
// booking would be left outside every remaining window.
func (s *Service) DeleteWindow(ctx context.Context, photographerID, windowID, actorID uuid.UUID, role domain.Role) error {
	if err := s.authorize(photographerID, actorID, role); err != nil {
		return err
	}

	err := s.repo.InPhotographerTx(ctx, photographerID, func(ctx context.Context, tx store.ScheduleTx) error {
		existing, err := tx.ListWindows(ctx, photographerID)
		if err != nil {
			return err
		}
		remaining := make([]domain.AvailabilityWindow, 0, len(existing))
		found := false
		for i := range existing {
			if existing[i].ID == windowID {
				found = true
				continue
			}
			remaining = append(remaining, existing[i])
		}
		if !found {
			return store.ErrNotFound
		}
		if err := s.checkBookingsCovered(ctx, tx, photographerID, remaining); err != nil {
			return err
		}
		return tx.DeleteWindow(ctx, photographerID, windowID)
	})
	if err != nil {
		return err
	}

	s.log.Info("availability window deleted", zap.String("window_id", windowID.String()))
	return nil
}

func (s *Service) ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	if photographerID == uuid.Nil {
		return nil, validationError("photographer_id is required")
	}
	return s.repo.ListWindows(ctx, photographerID)
}

func (s *Service) GetWindow(ctx context.Context, windowID uuid.UUID) (domain.AvailabilityWindow, error) {
	return s.repo.GetWindow(ctx, windowID)
}

func (s *Service) authorize(photographerID, actorID uuid.UUID, role domain.Role) error {
	if photographerID == uuid.Nil {
		return validationError("photographer_id is required")
	}
	if role == domain.RoleAdmin {
		return nil
	}
	if role != domain.RolePhotographer || actorID != photographerID {
		return store.ErrForbidden
	}
	return nil
}

// buildWindow parses and validates raw input into a window model.
func (s *Service) buildWindow(in WindowInput) (domain.AvailabilityWindow, error) {
	kind := domain.WindowKind(in.Kind)
	if !kind.IsValid() {
		return domain.AvailabilityWindow{}, validationError("kind must be recurring or one_off")
	}

	w := domain.AvailabilityWindow{
		PhotographerID: in.PhotographerID,
		Kind:           kind,
	}
	switch kind {
	case domain.WindowRecurring:
		if in.DayOfWeek == "" {
			return domain.AvailabilityWindow{}, validationError("day_of_week is required for recurring windows")
		}
		day, err := domain.ParseDayOfWeek(in.DayOfWeek)
		if err != nil {
			return domain.AvailabilityWindow{}, validationError(err.Error())
		}
		w.DayOfWeek = &day
	case domain.WindowOneOff:
		if in.SpecificDate == nil {
			return domain.AvailabilityWindow{}, validationError("specific_date is required for one-off windows")
		}
		date := in.SpecificDate.UTC().Truncate(24 * time.Hour)
		if date.Before(s.now().Truncate(24 * time.Hour)) {
			return domain.AvailabilityWindow{}, store.ErrPastDate
		}
		w.SpecificDate = &date
	}

	start, err := domain.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return domain.AvailabilityWindow{}, validationError(err.Error())
	}
	end, err := domain.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return domain.AvailabilityWindow{}, validationError(err.Error())
	}
	w.StartTime, w.EndTime = start, end

	if err := w.Validate(); err != nil {
		return domain.AvailabilityWindow{}, validationError(err.Error())
	}
	return w, nil
}

// checkBookingsCovered verifies every upcoming active booking still fits
// inside some window of the candidate set.
func (s *Service) checkBookingsCovered(ctx context.Context, tx store.ScheduleTx, photographerID uuid.UUID, windows []domain.AvailabilityWindow) error {
	now := s.now()
	active, err := tx.ListActiveBookings(ctx, photographerID, now, now.Add(bookingLookahead))
	if err != nil {
		return err
	}
	for i := range active {
		if !domain.IsOpen(windows, active[i].Interval()) {
			return store.ErrWindowBookingConflict
		}
	}
	return nil
}
