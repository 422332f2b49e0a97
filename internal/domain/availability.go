package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type WindowKind string

const (
	WindowRecurring WindowKind = "recurring"
	WindowOneOff    WindowKind = "one_off"
)

func (k WindowKind) IsValid() bool {
	return k == WindowRecurring || k == WindowOneOff
}

var dayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// ParseDayOfWeek parses a lowercase English day name.
func ParseDayOfWeek(s string) (time.Weekday, error) {
	d, ok := dayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("invalid day of week %q", s)
	}
	return d, nil
}

// AvailabilityWindow is a declared open interval of a photographer's day,
// either recurring weekly or bound to one specific date. Exactly one of
// DayOfWeek/SpecificDate is set, matching Kind.
type AvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ID             uuid.UUID     `bun:"id,pk,type:uuid" json:"id"`
	PhotographerID uuid.UUID     `bun:"photographer_id,notnull,type:uuid" json:"photographer_id"`
	Kind           WindowKind    `bun:"kind,notnull" json:"kind"`
	DayOfWeek      *time.Weekday `bun:"day_of_week" json:"day_of_week,omitempty"`
	SpecificDate   *time.Time    `bun:"specific_date" json:"specific_date,omitempty"`
	StartTime      TimeOfDay     `bun:"start_minute,notnull" json:"start_time"`
	EndTime        TimeOfDay     `bun:"end_minute,notnull" json:"end_time"`
	CreatedAt      time.Time     `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time     `bun:"updated_at,notnull" json:"updated_at"`
}

func (w *AvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if w.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			w.ID = id
		}
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		if w.UpdatedAt.IsZero() {
			w.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		w.UpdatedAt = now
	}
	return nil
}

// Validate checks the window's structural invariants.
func (w *AvailabilityWindow) Validate() error {
	if !w.Kind.IsValid() {
		return fmt.Errorf("invalid window kind %q", w.Kind)
	}
	switch w.Kind {
	case WindowRecurring:
		if w.DayOfWeek == nil || w.SpecificDate != nil {
			return fmt.Errorf("recurring window must set day_of_week and no specific_date")
		}
	case WindowOneOff:
		if w.SpecificDate == nil || w.DayOfWeek != nil {
			return fmt.Errorf("one-off window must set specific_date and no day_of_week")
		}
	}
	if !w.StartTime.Valid() || !w.EndTime.Valid() {
		return fmt.Errorf("window times must be within a single day")
	}
	if w.StartTime >= w.EndTime {
		return fmt.Errorf("window start time must be before end time")
	}
	return nil
}

// AppliesOn reports whether the window is in effect on the given UTC date.
func (w *AvailabilityWindow) AppliesOn(date time.Time) bool {
	date = date.UTC()
	switch w.Kind {
	case WindowRecurring:
		return w.DayOfWeek != nil && *w.DayOfWeek == date.Weekday()
	case WindowOneOff:
		if w.SpecificDate == nil {
			return false
		}
		sy, sm, sd := w.SpecificDate.UTC().Date()
		dy, dm, dd := date.Date()
		return sy == dy && sm == dm && sd == dd
	}
	return false
}

// Contains reports whether the interval lies fully inside this window on a
// day the window applies. Intervals spanning midnight are never contained.
func (w *AvailabilityWindow) Contains(i TimeInterval) bool {
	if !i.SameCalendarDay() {
		return false
	}
	if !w.AppliesOn(i.Start) {
		return false
	}
	return TimeOfDayOf(i.Start) >= w.StartTime && TimeOfDayCeil(i.End) <= w.EndTime
}

// SameSlot reports whether two windows cover the same recurrence target:
// same kind and same weekday or date.
func (w *AvailabilityWindow) SameSlot(o *AvailabilityWindow) bool {
	if w.Kind != o.Kind {
		return false
	}
	switch w.Kind {
	case WindowRecurring:
		return w.DayOfWeek != nil && o.DayOfWeek != nil && *w.DayOfWeek == *o.DayOfWeek
	case WindowOneOff:
		if w.SpecificDate == nil || o.SpecificDate == nil {
			return false
		}
		return w.AppliesOn(*o.SpecificDate)
	}
	return false
}

// OverlapsWindow reports whether two windows of the same kind and day have
// intersecting clock ranges. Half-open: touching bounds do not overlap.
func (w *AvailabilityWindow) OverlapsWindow(o *AvailabilityWindow) bool {
	if !w.SameSlot(o) {
		return false
	}
	return w.StartTime < o.EndTime && o.StartTime < w.EndTime
}

// IsOpen reports whether the interval is fully contained in at least one of
// the given windows. Recurring and one-off windows are evaluated
// independently; a one-off window needs no recurring counterpart.
func IsOpen(windows []AvailabilityWindow, i TimeInterval) bool {
	for idx := range windows {
		if windows[idx].Contains(i) {
			return true
		}
	}
	return false
}
