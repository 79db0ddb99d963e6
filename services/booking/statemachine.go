package booking

import (
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
)

// Transition names a requested booking state change.
type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionCancel   Transition = "cancel"
	TransitionComplete Transition = "complete"
	TransitionNoShow   Transition = "no_show"
)

// transitionTable encodes the full state machine:
//
//	pending   -> confirmed -> completed
//	pending | confirmed -> cancelled
//	confirmed -> no_show
//
// Any (status, transition) pair absent from the table is invalid, which also
// makes re-invoking a satisfied transition fail rather than silently succeed.
var transitionTable = map[Transition]map[models.BookingStatus]models.BookingStatus{
	TransitionConfirm: {
		models.StatusPending: models.StatusConfirmed,
	},
	TransitionCancel: {
		models.StatusPending:   models.StatusCancelled,
		models.StatusConfirmed: models.StatusCancelled,
	},
	TransitionComplete: {
		models.StatusConfirmed: models.StatusCompleted,
	},
	TransitionNoShow: {
		models.StatusConfirmed: models.StatusNoShow,
	},
}

// NextStatus resolves the target status for a transition from the current
// status, or an INVALID_TRANSITION error.
func NextStatus(current models.BookingStatus, t Transition) (models.BookingStatus, error) {
	next, ok := transitionTable[t][current]
	if !ok {
		return "", NewError(CodeInvalidTransition, "cannot %s a booking in status %q", t, current)
	}
	return next, nil
}

// CanBeCancelled reports whether the booking is in a cancellable status.
// Timing never blocks cancellation; it only decides the late flag.
func CanBeCancelled(b *models.Booking) bool {
	_, ok := transitionTable[TransitionCancel][b.Status]
	return ok
}

// IsLateCancellation reports whether cancelling now falls inside the penalty
// window before the booking's start.
func IsLateCancellation(b *models.Booking, now time.Time, window time.Duration) bool {
	return !now.Before(b.StartAt.Add(-window))
}

// CompletionDue reports whether the booking's end time has passed; a booking
// cannot be completed before it has taken place.
func CompletionDue(b *models.Booking, now time.Time) bool {
	return !now.Before(b.EndAt)
}

// NoShowDue reports whether the booking's start time has passed.
func NoShowDue(b *models.Booking, now time.Time) bool {
	return now.After(b.StartAt)
}
