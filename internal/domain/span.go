package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	// MinutesPerDay is 24:00, the exclusive end of a day.
	MinutesPerDay Clock = 24 * 60
)

// Clock is a time of day in minutes since midnight, in [00:00, 24:00).
type Clock int

// ParseClock accepts "HH:MM" or "HH:MM:SS"; seconds are truncated.
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("%w: malformed time %q", ErrInvalidInput, s)
}

func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

func (c Clock) Hours() float64 {
	return float64(c) / 60
}

func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseDate parses YYYY-MM-DD into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidInput, s)
	}
	return d, nil
}

// ParseMonth parses YYYY-MM and returns the first and last day of the month.
func ParseMonth(s string) (first, last time.Time, err error) {
	m, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: malformed month %q", ErrInvalidInput, s)
	}
	return m, m.AddDate(0, 1, -1), nil
}

// DateOf truncates t to its calendar date in t's location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Window is a half-open [Start, End) sub-interval of one day. End may be 24:00.
type Window struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

var FullDay = Window{Start: 0, End: MinutesPerDay}

func (w Window) Empty() bool {
	return w.End <= w.Start
}

func (w Window) IsFullDay() bool {
	return w.Start <= 0 && w.End >= MinutesPerDay
}

func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// Span is the time a booking occupies. On StartDate it runs from StartTime to
// 24:00 (or EndTime for a same-day span), intermediate days are fully
// occupied, and on EndDate it runs from 00:00 to EndTime.
type Span struct {
	StartDate time.Time
	EndDate   time.Time
	StartTime Clock
	EndTime   Clock
}

// NewSpan validates the date order, clock ranges and same-day duration.
func NewSpan(startDate, endDate time.Time, startTime, endTime Clock) (Span, error) {
	s := Span{
		StartDate: DateOf(startDate),
		EndDate:   DateOf(endDate),
		StartTime: startTime,
		EndTime:   endTime,
	}
	if err := s.Validate(); err != nil {
		return Span{}, err
	}
	return s, nil
}

func (s Span) Validate() error {
	if !s.StartTime.Valid() || !s.EndTime.Valid() {
		return fmt.Errorf("%w: time of day out of range", ErrInvalidInput)
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("%w: end date cannot be before start date", ErrInvalidDateRange)
	}
	if s.SameDay() && s.EndTime <= s.StartTime {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidDuration)
	}
	return nil
}

func (s Span) SameDay() bool {
	return s.StartDate.Equal(s.EndDate)
}

// Start is the first occupied instant, in UTC wall-clock terms.
func (s Span) Start() time.Time {
	return s.StartDate.Add(s.StartTime.Duration())
}

// End is the exclusive end instant.
func (s Span) End() time.Time {
	return s.EndDate.Add(s.EndTime.Duration())
}

// Days returns every calendar date from StartDate to EndDate inclusive.
func (s Span) Days() []time.Time {
	var days []time.Time
	for d := s.StartDate; !d.After(s.EndDate); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateRangeIntersects is the coarse pre-filter on [StartDate, EndDate].
func (s Span) DateRangeIntersects(o Span) bool {
	return !s.StartDate.After(o.EndDate) && !s.EndDate.Before(o.StartDate)
}

// BlockedWindowOn returns the occupied part of day. ok is false when the span
// does not occupy any time on that day.
func (s Span) BlockedWindowOn(day time.Time) (w Window, ok bool) {
	day = DateOf(day)
	if day.Before(s.StartDate) || day.After(s.EndDate) {
		return Window{}, false
	}

	switch {
	case s.SameDay():
		w = Window{Start: s.StartTime, End: s.EndTime}
	case day.Equal(s.StartDate):
		w = Window{Start: s.StartTime, End: MinutesPerDay}
	case day.Equal(s.EndDate):
		w = Window{Start: 0, End: s.EndTime}
	default:
		w = FullDay
	}

	if w.Empty() {
		return Window{}, false
	}
	return w, true
}

// Overlaps walks the shared days of both spans and compares their blocked
// windows. Adjacent spans (one ends when the other starts) do not overlap.
func (s Span) Overlaps(o Span) bool {
	if !s.DateRangeIntersects(o) {
		return false
	}

	from, to := s.StartDate, s.EndDate
	if o.StartDate.After(from) {
		from = o.StartDate
	}
	if o.EndDate.Before(to) {
		to = o.EndDate
	}

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		a, okA := s.BlockedWindowOn(day)
		b, okB := o.BlockedWindowOn(day)
		if okA && okB && a.Overlaps(b) {
			return true
		}
	}
	return false
}

func (s Span) String() string {
	return fmt.Sprintf("%s %s - %s %s",
		s.StartDate.Format(DateLayout), s.StartTime,
		s.EndDate.Format(DateLayout), s.EndTime)
}
