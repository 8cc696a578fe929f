package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
)

// BookingReader returns the blocking bookings of a hall whose date range
// intersects [from, to].
type BookingReader interface {
	ListBlocking(ctx context.Context, hallID int64, from, to time.Time) ([]domain.Booking, error)
}

type Detector struct {
	bookings BookingReader
}

func NewDetector(bookings BookingReader) *Detector {
	return &Detector{bookings: bookings}
}

// HasConflict reports whether candidate overlaps any booked span of the hall.
func (d *Detector) HasConflict(ctx context.Context, hallID int64, candidate domain.Span) (bool, error) {
	existing, err := d.bookings.ListBlocking(ctx, hallID, candidate.StartDate, candidate.EndDate)
	if err != nil {
		return false, fmt.Errorf("list bookings for hall %d: %w", hallID, err)
	}
	return HasConflict(candidate, existing), nil
}

// HasConflict is the pure form of Detector.HasConflict. Only bookings with a
// blocking status are considered; the date-range check is a cheap pre-filter
// before the per-day window comparison.
func HasConflict(candidate domain.Span, existing []domain.Booking) bool {
	_, found := FirstConflict(candidate, existing)
	return found
}

func FirstConflict(candidate domain.Span, existing []domain.Booking) (domain.Booking, bool) {
	for _, b := range existing {
		if !b.Status.Blocking() {
			continue
		}
		if !b.Span.DateRangeIntersects(candidate) {
			continue
		}
		if b.Span.Overlaps(candidate) {
			return b, true
		}
	}
	return domain.Booking{}, false
}
