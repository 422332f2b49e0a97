package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lenscal/backend/internal/domain"
	"lenscal/backend/internal/store"
)

type fakeStore struct {
	mu       sync.Mutex
	windows  map[uuid.UUID]domain.AvailabilityWindow
	bookings []domain.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{windows: make(map[uuid.UUID]domain.AvailabilityWindow)}
}

func (f *fakeStore) InPhotographerTx(ctx context.Context, photographerID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, fakeTx{s: f})
}

func (f *fakeStore) GetWindow(ctx context.Context, id uuid.UUID) (domain.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[id]
	if !ok {
		return domain.AvailabilityWindow{}, store.ErrNotFound
	}
	return w, nil
}

func (f *fakeStore) ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return listWindowsLocked(f, photographerID), nil
}

func listWindowsLocked(f *fakeStore, photographerID uuid.UUID) []domain.AvailabilityWindow {
	var out []domain.AvailabilityWindow
	for _, w := range f.windows {
		if w.PhotographerID == photographerID {
			out = append(out, w)
		}
	}
	return out
}

type fakeTx struct {
	s *fakeStore
}

func (t fakeTx) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	for _, b := range t.s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Booking{}, store.ErrNotFound
}

func (t fakeTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	t.s.bookings = append(t.s.bookings, b)
	return b, nil
}

func (t fakeTx) UpdateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	for i := range t.s.bookings {
		if t.s.bookings[i].ID == b.ID {
			t.s.bookings[i] = b
			return b, nil
		}
	}
	return domain.Booking{}, store.ErrNotFound
}

func (t fakeTx) ListActiveBookings(ctx context.Context, photographerID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range t.s.bookings {
		if b.PhotographerID != photographerID || !b.Status.IsActive() {
			continue
		}
		if b.StartTime.Before(windowEnd) && windowStart.Before(b.EndTime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t fakeTx) ListWindows(ctx context.Context, photographerID uuid.UUID) ([]domain.AvailabilityWindow, error) {
	return listWindowsLocked(t.s, photographerID), nil
}

func (t fakeTx) CreateWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	t.s.windows[w.ID] = w
	return w, nil
}

func (t fakeTx) UpdateWindow(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	if _, ok := t.s.windows[w.ID]; !ok {
		return domain.AvailabilityWindow{}, store.ErrNotFound
	}
	t.s.windows[w.ID] = w
	return w, nil
}

func (t fakeTx) DeleteWindow(ctx context.Context, photographerID, windowID uuid.UUID) error {
	w, ok := t.s.windows[windowID]
	if !ok || w.PhotographerID != photographerID {
		return store.ErrNotFound
	}
	delete(t.s.windows, windowID)
	return nil
}

var (
	photographerID = uuid.MustParse("00000000-0000-0000-0000-00000000b001")
	testNow        = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func newTestService(fs *fakeStore) *Service {
	svc := NewService(fs, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func recurringInput(day, start, end string) WindowInput {
	return WindowInput{
		PhotographerID: photographerID,
		ActorID:        photographerID,
		ActorRole:      domain.RolePhotographer,
		Kind:           "recurring",
		DayOfWeek:      day,
		StartTime:      start,
		EndTime:        end,
	}
}

func oneOffInput(d time.Time, start, end string) WindowInput {
	return WindowInput{
		PhotographerID: photographerID,
		ActorID:        photographerID,
		ActorRole:      domain.RolePhotographer,
		Kind:           "one_off",
		SpecificDate:   &d,
		StartTime:      start,
		EndTime:        end,
	}
}

func TestCreateWindow(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	w, err := svc.CreateWindow(context.Background(), recurringInput("thursday", "09:00", "17:00"))
	if err != nil {
		t.Fatalf("CreateWindow error: %v", err)
	}
	if w.Kind != domain.WindowRecurring {
		t.Fatalf("kind = %s, want recurring", w.Kind)
	}
	if w.DayOfWeek == nil || *w.DayOfWeek != time.Thursday {
		t.Fatalf("day = %v, want Thursday", w.DayOfWeek)
	}
	if w.StartTime != 9*60 || w.EndTime != 17*60 {
		t.Fatalf("range = %s..%s, want 09:00..17:00", w.StartTime, w.EndTime)
	}
}

func TestCreateWindow_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   WindowInput
	}{
		{name: "bad kind", in: func() WindowInput { in := recurringInput("monday", "09:00", "17:00"); in.Kind = "weekly"; return in }()},
		{name: "bad day", in: recurringInput("someday", "09:00", "17:00")},
		{name: "missing day", in: recurringInput("", "09:00", "17:00")},
		{name: "bad clock", in: recurringInput("monday", "9am", "17:00")},
		{name: "inverted range", in: recurringInput("monday", "17:00", "09:00")},
		{
			name: "one-off missing date",
			in: WindowInput{
				PhotographerID: photographerID, ActorID: photographerID, ActorRole: domain.RolePhotographer,
				Kind: "one_off", StartTime: "09:00", EndTime: "17:00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeStore())
			_, err := svc.CreateWindow(context.Background(), tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateWindow_PastDate(t *testing.T) {
	svc := newTestService(newFakeStore())

	past := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateWindow(context.Background(), oneOffInput(past, "09:00", "17:00"))
	if !errors.Is(err, store.ErrPastDate) {
		t.Fatalf("err = %v, want ErrPastDate", err)
	}

	// Today is not past.
	if _, err := svc.CreateWindow(context.Background(), oneOffInput(testNow, "09:00", "17:00")); err != nil {
		t.Fatalf("same-day CreateWindow error: %v", err)
	}
}

func TestCreateWindow_Overlap(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	if _, err := svc.CreateWindow(context.Background(), recurringInput("monday", "09:00", "12:00")); err != nil {
		t.Fatalf("CreateWindow error: %v", err)
	}

	_, err := svc.CreateWindow(context.Background(), recurringInput("monday", "11:00", "14:00"))
	if !errors.Is(err, store.ErrWindowOverlap) {
		t.Fatalf("err = %v, want ErrWindowOverlap", err)
	}

	// Touching windows and other days are fine.
	if _, err := svc.CreateWindow(context.Background(), recurringInput("monday", "12:00", "14:00")); err != nil {
		t.Fatalf("touching CreateWindow error: %v", err)
	}
	if _, err := svc.CreateWindow(context.Background(), recurringInput("tuesday", "11:00", "14:00")); err != nil {
		t.Fatalf("other-day CreateWindow error: %v", err)
	}
}

func TestCreateWindow_Forbidden(t *testing.T) {
	svc := newTestService(newFakeStore())

	in := recurringInput("monday", "09:00", "12:00")
	in.ActorID = uuid.MustParse("00000000-0000-0000-0000-00000000b002")
	if _, err := svc.CreateWindow(context.Background(), in); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	in = recurringInput("monday", "09:00", "12:00")
	in.ActorRole = domain.RoleClient
	if _, err := svc.CreateWindow(context.Background(), in); !errors.Is(err, store.ErrForbidden) {
		t.Fatalf("client err = %v, want ErrForbidden", err)
	}
}

func TestUpdateWindow(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	w, err := svc.CreateWindow(context.Background(), recurringInput("monday", "09:00", "12:00"))
	if err != nil {
		t.Fatalf("CreateWindow error: %v", err)
	}

	updated, err := svc.UpdateWindow(context.Background(), w.ID, recurringInput("monday", "10:00", "16:00"))
	if err != nil {
		t.Fatalf("UpdateWindow error: %v", err)
	}
	if updated.StartTime != 10*60 || updated.EndTime != 16*60 {
		t.Fatalf("range = %s..%s, want 10:00..16:00", updated.StartTime, updated.EndTime)
	}

	if _, err := svc.UpdateWindow(context.Background(), uuid.New(), recurringInput("monday", "10:00", "16:00")); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing window err = %v, want ErrNotFound", err)
	}
}

func TestUpdateWindow_BookingConflict(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	// 2026-09-07 is a Monday.
	w, err := svc.CreateWindow(context.Background(), recurringInput("monday", "09:00", "17:00"))
	if err != nil {
		t.Fatalf("CreateWindow error: %v", err)
	}
	fs.bookings = append(fs.bookings, domain.Booking{
		ID:             uuid.New(),
		PhotographerID: photographerID,
		StartTime:      time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		Status:         domain.StatusConfirmed,
	})

	// Shrinking past the booking is refused.
	_, err = svc.UpdateWindow(context.Background(), w.ID, recurringInput("monday", "13:00", "17:00"))
	if !errors.Is(err, store.ErrWindowBookingConflict) {
		t.Fatalf("err = %v, want ErrWindowBookingConflict", err)
	}

	// Shrinking around the booking is fine.
	if _, err := svc.UpdateWindow(context.Background(), w.ID, recurringInput("monday", "09:00", "13:00")); err != nil {
		t.Fatalf("UpdateWindow error: %v", err)
	}
}

func TestDeleteWindow(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	w, err := svc.CreateWindow(context.Background(), recurringInput("monday", "09:00", "17:00"))
	if err != nil {
		t.Fatalf("CreateWindow error: %v", err)
	}

	if err := svc.DeleteWindow(context.Background(), photographerID, w.ID, photographerID, domain.RolePhotographer); err != nil {
		t.Fatalf("DeleteWindow error: %v", err)
	}
	if err := svc.DeleteWindow(context.Background(), photographerID, w.ID, photographerID, domain.RolePhotographer); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteWindow_BookingConflict(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs)

	w, err := svc.CreateWindow(context.Background(), recurringInput("monday", "09:00", "17:00"))
	if err != nil {
		t.Fatalf("CreateWindow error: %v", err)
	}
	fs.bookings = append(fs.bookings, domain.Booking{
		ID:             uuid.New(),
		PhotographerID: photographerID,
		StartTime:      time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC),
		Status:         domain.StatusConfirmed,
	})

	err = svc.DeleteWindow(context.Background(), photographerID, w.ID, photographerID, domain.RolePhotographer)
	if !errors.Is(err, store.ErrWindowBookingConflict) {
		t.Fatalf("err = %v, want ErrWindowBookingConflict", err)
	}
}
