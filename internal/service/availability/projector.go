package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/samber/lo"
)

// DayEnd is the last bookable minute reported in slot views.
const DayEnd = domain.MinutesPerDay - 1

type Slot struct {
	Start domain.Clock `json:"start"`
	End   domain.Clock `json:"end"`
}

type BookingReader interface {
	ListBlocking(ctx context.Context, hallID int64, from, to time.Time) ([]domain.Booking, error)
	ListBlockingAll(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
}

type HallReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	ListActive(ctx context.Context) ([]domain.Hall, error)
}

type AvailabilityUseCase interface {
	AvailableDates(ctx context.Context, hallID int64, month string) ([]time.Time, error)
	AvailableSlots(ctx context.Context, hallID int64, date string) ([]Slot, error)
	Calendar(ctx context.Context, month string) (map[int64][]time.Time, error)
}

// Projector derives free/busy views from booked spans. It uses the same
// blocked-window rule as the conflict detector, so anything reported free
// can be booked.
type Projector struct {
	bookings BookingReader
	halls    HallReader
}

func NewProjector(bookings BookingReader, halls HallReader) *Projector {
	return &Projector{bookings: bookings, halls: halls}
}

func (p *Projector) AvailableDates(ctx context.Context, hallID int64, month string) ([]time.Time, error) {
	first, last, err := domain.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if _, err := p.halls.GetByID(ctx, hallID); err != nil {
		return nil, err
	}

	bookings, err := p.bookings.ListBlocking(ctx, hallID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list bookings for hall %d: %w", hallID, err)
	}
	return FreeDates(bookings, first, last), nil
}

func (p *Projector) AvailableSlots(ctx context.Context, hallID int64, date string) ([]Slot, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := p.halls.GetByID(ctx, hallID); err != nil {
		return nil, err
	}

	bookings, err := p.bookings.ListBlocking(ctx, hallID, day, day)
	if err != nil {
		return nil, fmt.Errorf("list bookings for hall %d: %w", hallID, err)
	}
	return FreeSlots(bookings, day), nil
}

// Calendar returns the free dates of every non-deleted hall for the month,
// reading the bookings of all halls in one query.
func (p *Projector) Calendar(ctx context.Context, month string) (map[int64][]time.Time, error) {
	first, last, err := domain.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	halls, err := p.halls.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}
	bookings, err := p.bookings.ListBlockingAll(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	byHall := lo.GroupBy(bookings, func(b domain.Booking) int64 { return b.HallID })
	calendar := make(map[int64][]time.Time, len(halls))
	for _, h := range halls {
		calendar[h.ID] = FreeDates(byHall[h.ID], first, last)
	}
	return calendar, nil
}

// BlockedDates marks every date in [from, to] on which a blocking booking
// occupies any time.
func BlockedDates(bookings []domain.Booking, from, to time.Time) map[time.Time]bool {
	blocked := make(map[time.Time]bool)
	for _, b := range bookings {
		if !b.Status.Blocking() {
			continue
		}
		for _, day := range b.Span.Days() {
			if day.Before(from) || day.After(to) {
				continue
			}
			if _, ok := b.Span.BlockedWindowOn(day); ok {
				blocked[day] = true
			}
		}
	}
	return blocked
}

// FreeDates is the complement of BlockedDates within [from, to].
func FreeDates(bookings []domain.Booking, from, to time.Time) []time.Time {
	from, to = domain.DateOf(from), domain.DateOf(to)
	blocked := BlockedDates(bookings, from, to)

	free := make([]time.Time, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !blocked[day] {
			free = append(free, day)
		}
	}
	return free
}

// FreeSlots returns the gaps between the merged blocked windows of day,
// bounded by 00:00 and 23:59.
func FreeSlots(bookings []domain.Booking, day time.Time) []Slot {
	day = domain.DateOf(day)

	var windows []domain.Window
	for _, b := range bookings {
		if !b.Status.Blocking() {
			continue
		}
		w, ok := b.Span.BlockedWindowOn(day)
		if !ok {
			continue
		}
		if w.IsFullDay() {
			return []Slot{}
		}
		windows = append(windows, w)
	}

	slots := make([]Slot, 0)
	cursor := domain.Clock(0)
	for _, w := range MergeWindows(windows) {
		if w.Start > cursor {
			slots = append(slots, Slot{Start: cursor, End: w.Start})
		}
		if w.End > cursor {
			cursor = w.End
		}
	}
	if cursor < DayEnd {
		slots = append(slots, Slot{Start: cursor, End: DayEnd})
	}
	return slots
}

// MergeWindows sorts windows by start and coalesces overlapping or adjacent ones.
func MergeWindows(windows []domain.Window) []domain.Window {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]domain.Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []domain.Window{sorted[0]}
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

var _ AvailabilityUseCase = (*Projector)(nil)
