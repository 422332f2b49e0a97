package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	for _, s := range []BookingStatus{StatusCompleted, StatusCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("%s.IsTerminal() = false, want true", s)
		}
	}
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed} {
		if s.IsTerminal() {
			t.Fatalf("%s.IsTerminal() = true, want false", s)
		}
	}
	if BookingStatus("bogus").IsTerminal() {
		t.Fatal("invalid status reported terminal")
	}
}

func TestTransitionTo(t *testing.T) {
	b := Booking{Status: StatusConfirmed}
	if err := b.TransitionTo(StatusCompleted); err != nil {
		t.Fatalf("TransitionTo error: %v", err)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", b.Status, StatusCompleted)
	}

	err := b.TransitionTo(StatusCancelled)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
	if invalid.From != StatusCompleted || invalid.To != StatusCancelled {
		t.Fatalf("error fields = %s -> %s", invalid.From, invalid.To)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("status mutated on failed transition: %s", b.Status)
	}
}

func TestParseBookingStatus(t *testing.T) {
	if _, err := ParseBookingStatus("confirmed"); err != nil {
		t.Fatalf("ParseBookingStatus(confirmed) error: %v", err)
	}
	if _, err := ParseBookingStatus("rescheduled"); err == nil {
		t.Fatal("ParseBookingStatus(rescheduled) = nil error, want error")
	}
}

func TestValidateDuration(t *testing.T) {
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	mk := func(d time.Duration) TimeInterval {
		return TimeInterval{Start: at, End: at.Add(d)}
	}

	tests := []struct {
		name    string
		d       time.Duration
		wantErr bool
	}{
		{name: "below minimum", d: 59 * time.Minute, wantErr: true},
		{name: "exactly one hour", d: time.Hour},
		{name: "mid range", d: 4 * time.Hour},
		{name: "exactly eight hours", d: 8 * time.Hour},
		{name: "above maximum", d: 8*time.Hour + time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(mk(tt.d))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDuration) {
					t.Fatalf("err = %v, want ErrInvalidDuration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateDuration error: %v", err)
			}
		})
	}
}

func TestCancellableAt(t *testing.T) {
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	b := Booking{StartTime: start}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "well before", now: start.Add(-48 * time.Hour), want: true},
		{name: "exactly at lead time", now: start.Add(-CancellationLeadTime), want: true},
		{name: "inside lead time", now: start.Add(-23 * time.Hour), want: false},
		{name: "after start", now: start.Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CancellableAt(tt.now); got != tt.want {
				t.Fatalf("CancellableAt = %v, want %v", got, tt.want)
			}
		})
	}
}
