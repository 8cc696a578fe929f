package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
)

// DayCharge is the charge for one calendar day of a span.
type DayCharge struct {
	Date    time.Time
	Hours   float64
	FullDay bool
	Weekend bool
	Amount  float64
}

// Breakdown walks every day of the span and prices it on its own: hourly for
// partial days, the day rate for intermediate days, with the weekend
// multiplier applied per day.
func Breakdown(rates domain.RateCard, span domain.Span) ([]DayCharge, error) {
	if span.SameDay() && span.EndTime <= span.StartTime {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidDuration)
	}
	if err := span.Validate(); err != nil {
		return nil, err
	}

	days := span.Days()
	charges := make([]DayCharge, 0, len(days))
	for _, day := range days {
		c := DayCharge{Date: day, Weekend: domain.IsWeekend(day)}

		switch {
		case span.SameDay():
			c.Hours = (span.EndTime - span.StartTime).Hours()
			c.Amount = c.Hours * rates.PricePerHour
		case day.Equal(span.StartDate):
			c.Hours = (domain.MinutesPerDay - span.StartTime).Hours()
			c.Amount = c.Hours * rates.PricePerHour
		case day.Equal(span.EndDate):
			c.Hours = span.EndTime.Hours()
			c.Amount = c.Hours * rates.PricePerHour
		default:
			c.Hours = 24
			c.FullDay = true
			c.Amount = rates.PricePerDay
		}

		if c.Weekend {
			c.Amount *= weekendFactor(rates)
		}
		charges = append(charges, c)
	}
	return charges, nil
}

// Price is the sum of the day charges plus the security deposit, rounded to
// two decimals once at the end.
func Price(rates domain.RateCard, span domain.Span) (float64, error) {
	charges, err := Breakdown(rates, span)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, c := range charges {
		total += c.Amount
	}
	return Round2(total + rates.SecurityDeposit), nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MinorUnits converts an amount to the gateway's integer minor units.
func MinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

func weekendFactor(rates domain.RateCard) float64 {
	if rates.WeekendPriceMultiplier < 1 {
		return 1
	}
	return rates.WeekendPriceMultiplier
}
