package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewTimeInterval(t *testing.T) {
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{name: "valid", start: start, end: start.Add(time.Hour)},
		{name: "zero length", start: start, end: start, wantErr: true},
		{name: "inverted", start: start.Add(time.Hour), end: start, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeInterval(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInterval) {
					t.Fatalf("err = %v, want ErrInvalidInterval", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTimeInterval error: %v", err)
			}
		})
	}
}

func TestNewTimeInterval_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(2026, 9, 10, 12, 0, 0, 0, loc)

	i, err := NewTimeInterval(start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("NewTimeInterval error: %v", err)
	}
	if i.Start.Location() != time.UTC {
		t.Fatalf("start location = %v, want UTC", i.Start.Location())
	}
	if got, want := i.Start.Hour(), 10; got != want {
		t.Fatalf("start hour = %d, want %d", got, want)
	}
}

func TestTimeIntervalOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 9, 10, h, m, 0, 0, time.UTC)
	}
	mk := func(sh, sm, eh, em int) TimeInterval {
		return TimeInterval{Start: at(sh, sm), End: at(eh, em)}
	}

	tests := []struct {
		name string
		a    TimeInterval
		b    TimeInterval
		want bool
	}{
		{name: "disjoint", a: mk(9, 0, 10, 0), b: mk(11, 0, 12, 0), want: false},
		{name: "partial", a: mk(9, 0, 11, 0), b: mk(10, 0, 12, 0), want: true},
		{name: "contained", a: mk(9, 0, 12, 0), b: mk(10, 0, 11, 0), want: true},
		{name: "identical", a: mk(9, 0, 10, 0), b: mk(9, 0, 10, 0), want: true},
		{name: "back to back", a: mk(9, 0, 10, 0), b: mk(10, 0, 11, 0), want: false},
		{name: "one minute overlap", a: mk(9, 0, 10, 1), b: mk(10, 0, 11, 0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameCalendarDay(t *testing.T) {
	sameDay := TimeInterval{
		Start: time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 10, 17, 0, 0, 0, time.UTC),
	}
	if !sameDay.SameCalendarDay() {
		t.Fatal("SameCalendarDay() = false, want true")
	}

	crossMidnight := TimeInterval{
		Start: time.Date(2026, 9, 10, 22, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 9, 11, 2, 0, 0, 0, time.UTC),
	}
	if crossMidnight.SameCalendarDay() {
		t.Fatal("SameCalendarDay() = true, want false")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 9*60 + 30},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeOfDay(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got, want := TimeOfDay(9*60+5).String(), "09:05"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestTimeOfDayCeil(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want TimeOfDay
	}{
		{name: "on the minute", ts: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC), want: 12 * 60},
		{name: "seconds round up", ts: time.Date(2026, 9, 10, 12, 0, 59, 0, time.UTC), want: 12*60 + 1},
		{name: "nanoseconds round up", ts: time.Date(2026, 9, 10, 12, 0, 0, 1, time.UTC), want: 12*60 + 1},
		{name: "past last minute of day", ts: time.Date(2026, 9, 10, 23, 59, 30, 0, time.UTC), want: 24 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeOfDayCeil(tt.ts); got != tt.want {
				t.Fatalf("TimeOfDayCeil = %d, want %d", got, tt.want)
			}
		})
	}
}
