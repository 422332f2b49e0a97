// Package scheduling books photographer time. All slot-affecting mutations
// for one photographer run inside a single serialized unit of work, so a
// check-then-create sequence can never interleave with a competing one.
package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/events"
	"lenscal/backend/internal/store"
)

const (
	maxLocationLen        = 255
	maxSpecialRequestsLen = 500

	defaultPageSize = 10
	maxPageSize     = 100
)

// ValidationError reports rejected input. It maps to a 400 at the transport
// layer, unlike domain conflicts which map to 409.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}

// EventPublisher receives booking events after the owning transaction has
// committed. Implementations must not block the request path on failure.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, evt events.BookingEvent)
}

type Service struct {
	repo   store.BookingStore
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo store.BookingStore, pub EventPublisher, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		events: pub,
		log:    log.Named("scheduling"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateBookingInput struct {
	ClientID        uuid.UUID
	PhotographerID  uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	ShootType       string
	Location        string
	SpecialRequests string
	TotalPriceCents int64
}

// CreateBooking validates the request, then atomically verifies the slot is
// inside declared availability and free of active bookings before persisting
// the booking as confirmed.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.ClientID == uuid.Nil {
		return domain.Booking{}, validationError("client_id is required")
	}
	if in.PhotographerID == uuid.Nil {
		return domain.Booking{}, validationError("photographer_id is required")
	}
	shootType := domain.ShootType(strings.ToLower(strings.TrimSpace(in.ShootType)))
	if !shootType.IsValid() {
		return domain.Booking{}, validationError("invalid shoot type")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return domain.Booking{}, validationError("location is required")
	}
	if len(location) > maxLocationLen {
		return domain.Booking{}, validationError("location is too long")
	}
	if len(in.SpecialRequests) > maxSpecialRequestsLen {
		return domain.Booking{}, validationError("special requests must be at most 500 characters")
	}
	if in.TotalPriceCents < 0 {
		return domain.Booking{}, validationError("total price cannot be negative")
	}

	interval, err := domain.NewTimeInterval(in.StartTime, in.EndTime)
	if err != nil {
		return domain.Booking{}, validationError("end_time must be after start_time")
	}
	if err := domain.ValidateDuration(interval); err != nil {
		return domain.Booking{}, err
	}
	if interval.Start.Before(s.now().Add(domain.MinBookingNotice)) {
		return domain.Booking{}, validationError("bookings must be made at least 24 hours in advance")
	}

	var created domain.Booking
	err = s.repo.InPhotographerTx(ctx, in.PhotographerID, func(ctx context.Context, tx store.ScheduleTx) error {
		windows, err := tx.ListWindows(ctx, in.PhotographerID)
		if err != nil {
			return err
		}
		if !domain.IsOpen(windows, interval) {
			return store.ErrNotAvailable
		}

		active, err := tx.ListActiveBookings(ctx, in.PhotographerID, interval.Start, interval.End)
		if err != nil {
			return err
		}
		for i := range active {
			if active[i].Interval().Overlaps(interval) {
				return &store.SlotTakenError{ConflictingBookingID: active[i].ID}
			}
		}

		created, err = tx.CreateBooking(ctx, domain.Booking{
			ClientID:        in.ClientID,
			PhotographerID:  in.PhotographerID,
			StartTime:       interval.Start,
			EndTime:         interval.End,
			Status:          domain.StatusConfirmed,
			ShootType:       shootType,
			Location:        location,
			SpecialRequests: strings.TrimSpace(in.SpecialRequests),
			TotalPriceCents: in.TotalPriceCents,
			PaymentStatus:   domain.PaymentUnpaid,
		})
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", created.ID.String()),
		zap.String("photographer_id", created.PhotographerID.String()),
		zap.Time("start_time", created.StartTime),
	)
	s.publish(ctx, events.BookingConfirmed, created)
	return created, nil
}

type UpdateBookingInput struct {
	BookingID uuid.UUID
	ActorID   uuid.UUID
	ActorRole domain.Role

	StartTime       *time.Time
	EndTime         *time.Time
	Status          *string
	Location        *string
	SpecialRequests *string
}

// UpdateBooking applies time, detail and status changes. A time change is
// re-validated against availability and conflicts exactly like a create,
// excluding the booking itself; a status change must follow the lifecycle
// transition table.
func (s *Service) UpdateBooking(ctx context.Context, in UpdateBookingInput) (domain.Booking, error) {
	if in.BookingID == uuid.Nil {
		return domain.Booking{}, validationError("booking id is required")
	}

	// Read outside the unit of work to learn which photographer to lock;
	// everything is re-read and re-checked once the lock is held.
	current, err := s.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !canActOn(current, in.ActorID, in.ActorRole) {
		return domain.Booking{}, store.ErrForbidden
	}

	var (
		updated    domain.Booking
		prevStatus domain.BookingStatus
	)
	err = s.repo.InPhotographerTx(ctx, current.PhotographerID, func(ctx context.Context, tx store.ScheduleTx) error {
		b, err := tx.GetBooking(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if !canActOn(b, in.ActorID, in.ActorRole) {
			return store.ErrForbidden
		}
		prevStatus = b.Status

		if in.StartTime != nil || in.EndTime != nil {
			if b.Status != domain.StatusPending && b.Status != domain.StatusConfirmed {
				return validationError("only pending or confirmed bookings can be rescheduled")
			}
			start, end := b.StartTime, b.EndTime
			if in.StartTime != nil {
				start = *in.StartTime
			}
			if in.EndTime != nil {
				end = *in.EndTime
			}
			interval, err := domain.NewTimeInterval(start, end)
			if err != nil {
				return validationError("end_time must be after start_time")
			}
			if err := domain.ValidateDuration(interval); err != nil {
				return err
			}
			if interval.Start.Before(s.now().Add(domain.MinBookingNotice)) {
				return validationError("bookings must be made at least 24 hours in advance")
			}

			windows, err := tx.ListWindows(ctx, b.PhotographerID)
			if err != nil {
				return err
			}
			if !domain.IsOpen(windows, interval) {
				return store.ErrNotAvailable
			}
			active, err := tx.ListActiveBookings(ctx, b.PhotographerID, interval.Start, interval.End)
			if err != nil {
				return err
			}
			for i := range active {
				if active[i].ID == b.ID {
					continue
				}
				if active[i].Interval().Overlaps(interval) {
					return &store.SlotTakenError{ConflictingBookingID: active[i].ID}
				}
			}
			b.StartTime, b.EndTime = interval.Start, interval.End
		}

		if in.Location != nil {
			location := strings.TrimSpace(*in.Location)
			if location == "" {
				return validationError("location is required")
			}
			if len(location) > maxLocationLen {
				return validationError("location is too long")
			}
			b.Location = location
		}
		if in.SpecialRequests != nil {
			if len(*in.SpecialRequests) > maxSpecialRequestsLen {
				return validationError("special requests must be at most 500 characters")
			}
			b.SpecialRequests = strings.TrimSpace(*in.SpecialRequests)
		}

		if in.Status != nil {
			target, err := domain.ParseBookingStatus(*in.Status)
			if err != nil {
				return validationError(err.Error())
			}
			if target == domain.StatusCancelled && in.ActorRole != domain.RoleAdmin && !b.CancellableAt(s.now()) {
				return validationError("bookings can only be cancelled at least 24 hours in advance")
			}
			if err := b.TransitionTo(target); err != nil {
				return err
			}
		}

		updated, err = tx.UpdateBooking(ctx, b)
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.log.Info("booking updated",
		zap.String("booking_id", updated.ID.String()),
		zap.String("status", updated.Status.String()),
	)
	s.publish(ctx, eventTypeFor(prevStatus, updated.Status), updated)
	return updated, nil
}

// CancelBooking cancels a booking, enforcing the 24 hour cancellation lead
// time for non-admin actors.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, role domain.Role) (domain.Booking, error) {
	status := domain.StatusCancelled.String()
	return s.UpdateBooking(ctx, UpdateBookingInput{
		BookingID: bookingID,
		ActorID:   actorID,
		ActorRole: role,
		Status:    &status,
	})
}

// CompleteBooking marks a confirmed booking completed, making it eligible
// for review.
func (s *Service) CompleteBooking(ctx context.Context, bookingID, actorID uuid.UUID, role domain.Role) (domain.Booking, error) {
	status := domain.StatusCompleted.String()
	return s.UpdateBooking(ctx, UpdateBookingInput{
		BookingID: bookingID,
		ActorID:   actorID,
		ActorRole: role,
		Status:    &status,
	})
}

func (s *Service) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID, role domain.Role) (domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !canActOn(b, actorID, role) {
		return domain.Booking{}, store.ErrForbidden
	}
	return b, nil
}

func (s *Service) ListClientBookings(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListByClient(ctx, clientID, page, pageSize)
}

func (s *Service) ListPhotographerBookings(ctx context.Context, photographerID uuid.UUID, page, pageSize int) ([]domain.Booking, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListByPhotographer(ctx, photographerID, page, pageSize)
}

// AvailabilityResult is the outcome of a slot probe. ConflictingBookingID is
// set only when an active booking occupies the interval.
type AvailabilityResult struct {
	IsAvailable          bool       `json:"is_available"`
	InsideWindow         bool       `json:"inside_window"`
	ConflictingBookingID *uuid.UUID `json:"conflicting_booking_id,omitempty"`
}

// CheckAvailability probes whether a slot could be booked right now. The
// answer is advisory: only CreateBooking's own transaction is authoritative.
func (s *Service) CheckAvailability(ctx context.Context, photographerID uuid.UUID, startTime, endTime time.Time) (AvailabilityResult, error) {
	if photographerID == uuid.Nil {
		return AvailabilityResult{}, validationError("photographer_id is required")
	}
	interval, err := domain.NewTimeInterval(startTime, endTime)
	if err != nil {
		return AvailabilityResult{}, validationError("end_time must be after start_time")
	}

	var result AvailabilityResult
	err = s.repo.InPhotographerTx(ctx, photographerID, func(ctx context.Context, tx store.ScheduleTx) error {
		windows, err := tx.ListWindows(ctx, photographerID)
		if err != nil {
			return err
		}
		result.InsideWindow = domain.IsOpen(windows, interval)

		active, err := tx.ListActiveBookings(ctx, photographerID, interval.Start, interval.End)
		if err != nil {
			return err
		}
		for i := range active {
			if active[i].Interval().Overlaps(interval) {
				id := active[i].ID
				result.ConflictingBookingID = &id
				break
			}
		}
		result.IsAvailable = result.InsideWindow && result.ConflictingBookingID == nil
		return nil
	})
	if err != nil {
		return AvailabilityResult{}, err
	}
	return result, nil
}

// publish runs after the owning transaction has committed. The context is
// detached from the request so a caller hanging up right after commit cannot
// cancel the event.
func (s *Service) publish(ctx context.Context, eventType string, b domain.Booking) {
	if s.events == nil {
		return
	}
	s.events.PublishBookingEvent(context.WithoutCancel(ctx), events.BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		ClientID:       b.ClientID,
		PhotographerID: b.PhotographerID,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         b.Status.String(),
		OccurredAt:     s.now(),
	})
}

func eventTypeFor(prev, next domain.BookingStatus) string {
	if prev == next {
		return events.BookingUpdated
	}
	switch next {
	case domain.StatusConfirmed:
		return events.BookingConfirmed
	case domain.StatusCancelled:
		return events.BookingCancelled
	case domain.StatusCompleted:
		return events.BookingCompleted
	}
	return events.BookingUpdated
}

// canActOn checks ownership by role: clients act on their own bookings,
// photographers on bookings addressed to them, admins on any.
func canActOn(b domain.Booking, actorID uuid.UUID, role domain.Role) bool {
	switch role {
	case domain.RoleClient:
		return b.ClientID == actorID
	case domain.RolePhotographer:
		return b.PhotographerID == actorID
	case domain.RoleAdmin:
		return true
	}
	return false
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
