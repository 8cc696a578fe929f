package domain

import "time"

// RateCard holds the pricing fields of a hall.
type RateCard struct {
	PricePerHour           float64 `json:"price_per_hour"`
	PricePerDay            float64 `json:"price_per_day"`
	WeekendPriceMultiplier float64 `json:"weekend_price_multiplier"`
	SecurityDeposit        float64 `json:"security_deposit"`
}

type Hall struct {
	ID          int64     `json:"id"`
	AdminID     int64     `json:"admin_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	Address     string    `json:"address"`
	Location    string    `json:"location"`
	RateCard
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Page is a 1-based page request for hall listings.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
