package models

import "time"

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// ActiveStatuses are the statuses under which a booking occupies its slot.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// GuestContact identifies a guest customer without a registered account.
type GuestContact struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Customer identifies who made a booking: a registered user or a guest.
// Exactly one of UserID and Guest is set.
type Customer struct {
	UserID string        `bson:"userId,omitempty" json:"userId,omitempty"`
	Guest  *GuestContact `bson:"guest,omitempty" json:"guest,omitempty"`
}

// RegisteredCustomer builds a Customer for an authenticated user.
func RegisteredCustomer(userID string) Customer {
	return Customer{UserID: userID}
}

// GuestCustomer builds a Customer for a guest booking.
func GuestCustomer(contact GuestContact) Customer {
	return Customer{Guest: &contact}
}

// IsGuest reports whether the booking was made without a registered account.
func (c Customer) IsGuest() bool {
	return c.Guest != nil
}

// Valid reports whether exactly one identity side is set.
func (c Customer) Valid() bool {
	return (c.UserID != "") != (c.Guest != nil)
}

// Booking represents a booking record. Bookings are never deleted: terminal
// statuses are retained for audit and payout reconciliation.
type Booking struct {
	ID               string        `bson:"_id" json:"id"`
	ProviderID       string        `bson:"providerId" json:"providerId"`
	Customer         Customer      `bson:"customer" json:"customer"`
	ServiceName      string        `bson:"serviceName" json:"serviceName"`
	ServicePrice     float64       `bson:"servicePrice" json:"servicePrice"`
	ServiceDuration  int           `bson:"serviceDuration" json:"serviceDuration"` // minutes
	Date             string        `bson:"date" json:"date"`                       // "YYYY-MM-DD"
	Start            int           `bson:"start" json:"start"`                     // minutes from midnight
	End              int           `bson:"end" json:"end"`                         // minutes from midnight
	StartAt          time.Time     `bson:"startAt" json:"startAt"`                 // absolute start (UTC)
	EndAt            time.Time     `bson:"endAt" json:"endAt"`                     // absolute end (UTC)
	Status           BookingStatus `bson:"status" json:"status"`
	TotalAmount      float64       `bson:"totalAmount" json:"totalAmount"`
	PlatformFee      float64       `bson:"platformFee" json:"platformFee"`
	ProviderPayout   float64       `bson:"providerPayout" json:"providerPayout"`
	PaymentRef       string        `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	ConfirmationCode string        `bson:"confirmationCode" json:"confirmationCode"`
	CustomerNotes    string        `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	ProviderNotes    string        `bson:"providerNotes,omitempty" json:"providerNotes,omitempty"`

	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	// Active mirrors Status being pending or confirmed. It backs the partial
	// unique index that closes the create race on (provider, date, start).
	Active bool `bson:"active" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the booking currently occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal reports whether the booking has reached a final status.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}
