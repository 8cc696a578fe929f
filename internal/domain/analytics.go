package domain

type MonthRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

type HallRevenue struct {
	HallID   int64   `json:"hall_id"`
	HallName string  `json:"hall_name"`
	Revenue  float64 `json:"revenue"`
}

type HallBookingCount struct {
	HallID       int64  `json:"hall_id"`
	HallName     string `json:"hall_name"`
	BookingCount int64  `json:"booking_count"`
}

type PaymentStats struct {
	OnlinePayments       int64 `json:"online_payments"`
	CashPayments         int64 `json:"cash_payments"`
	FailedOnlinePayments int64 `json:"failed_online_payments"`
}

// AdminStats is the dashboard summary of an admin's halls. TodayBookings
// counts bookings whose date range contains today.
type AdminStats struct {
	TotalHalls    int64 `json:"total_halls"`
	TotalBookings int64 `json:"total_bookings"`
	TodayBookings int64 `json:"today_bookings"`
}
