package models

// CreateBookingInput carries everything needed to create a booking.
type CreateBookingInput struct {
	ProviderID    string   `json:"providerId" binding:"required"`
	Customer      Customer `json:"customer"`
	ServiceName   string   `json:"serviceName" binding:"required"`
	Date          string   `json:"date" binding:"required"` // "YYYY-MM-DD"
	Start         int      `json:"start"`                   // minutes from midnight
	PaymentRef    string   `json:"paymentRef,omitempty"`
	CustomerNotes string   `json:"customerNotes,omitempty"`
}

// BookingStatusView is the unauthenticated status lookup payload, keyed by
// confirmation code so guests can check their booking.
type BookingStatusView struct {
	ConfirmationCode string        `json:"confirmationCode"`
	Status           BookingStatus `json:"status"`
	Date             string        `json:"date"`
	Start            int           `json:"start"`
	End              int           `json:"end"`
	ServiceName      string        `json:"serviceName"`
	TotalAmount      float64       `json:"totalAmount"`
}

// ToStatusView projects a booking into its public status payload.
func (b *Booking) ToStatusView() BookingStatusView {
	return BookingStatusView{
		ConfirmationCode: b.ConfirmationCode,
		Status:           b.Status,
		Date:             b.Date,
		Start:            b.Start,
		End:              b.End,
		ServiceName:      b.ServiceName,
		TotalAmount:      b.TotalAmount,
	}
}

// ProviderDashboard aggregates a provider's booking counts and payout totals.
type ProviderDashboard struct {
	ProviderID        string  `json:"providerId"`
	UpcomingBookings  int64   `json:"upcomingBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalPayout       float64 `json:"totalPayout"`
	PendingPayout     float64 `json:"pendingPayout"`
}
