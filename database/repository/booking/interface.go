package bookingRepo

import (
	"context"
	"errors"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
)

var (
	// ErrNotFound is returned when no booking matches the lookup.
	ErrNotFound = errors.New("booking not found")
	// ErrSlotTaken is returned when the occupancy index rejects a create.
	// Exactly one of two racing creations for the same (provider, date, start)
	// receives it.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrStaleStatus is returned when a transition's status precondition no
	// longer holds, i.e. a concurrent transition won.
	ErrStaleStatus = errors.New("booking status changed")
)

// TransitionUpdate describes the fields a state-machine transition writes.
type TransitionUpdate struct {
	To     models.BookingStatus
	Active bool

	CancellationReason string
	CancelledBy        string
	CancelledAt        *time.Time
	CompletedAt        *time.Time
}

// BookingRepository is the persistence boundary for bookings. Implementations
// must guarantee that Create is atomic against the active-slot uniqueness
// constraint, and that ApplyTransition only succeeds while the status
// precondition holds.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error)
	FindByPaymentRef(ctx context.Context, paymentRef string) (*models.Booking, error)

	// FindActiveOverlapping returns pending/confirmed bookings for the
	// provider on the date whose [start,end) overlaps the given half-open range.
	FindActiveOverlapping(ctx context.Context, providerID, date string, start, end int) ([]models.Booking, error)

	// FindActiveBetween returns pending/confirmed bookings for the provider
	// with dates in [fromDate, toDate], ordered by date then start.
	FindActiveBetween(ctx context.Context, providerID, fromDate, toDate string) ([]models.Booking, error)

	// ApplyTransition atomically moves the booking from the given status,
	// returning ErrStaleStatus if the precondition no longer holds.
	ApplyTransition(ctx context.Context, id string, from models.BookingStatus, upd TransitionUpdate) (*models.Booking, error)

	ListByCustomer(ctx context.Context, userID string) ([]models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)

	// FindEligibleForCompletion returns confirmed bookings whose end time has
	// passed as of the given instant.
	FindEligibleForCompletion(ctx context.Context, asOf time.Time) ([]models.Booking, error)
	// FindEligibleForNoShow returns confirmed bookings whose start time has
	// passed as of the given instant.
	FindEligibleForNoShow(ctx context.Context, asOf time.Time) ([]models.Booking, error)

	CountByProviderAndStatus(ctx context.Context, providerID string, statuses []models.BookingStatus) (int64, error)
	CountUpcoming(ctx context.Context, providerID string, asOf time.Time) (int64, error)
	SumPayoutByStatus(ctx context.Context, providerID string, status models.BookingStatus) (float64, error)
}
