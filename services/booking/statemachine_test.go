package booking

import (
	"testing"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    models.BookingStatus
		transition Transition
		want       models.BookingStatus
		wantErr    bool
	}{
		{name: "confirm pending", current: models.StatusPending, transition: TransitionConfirm, want: models.StatusConfirmed},
		{name: "cancel pending", current: models.StatusPending, transition: TransitionCancel, want: models.StatusCancelled},
		{name: "cancel confirmed", current: models.StatusConfirmed, transition: TransitionCancel, want: models.StatusCancelled},
		{name: "complete confirmed", current: models.StatusConfirmed, transition: TransitionComplete, want: models.StatusCompleted},
		{name: "no-show confirmed", current: models.StatusConfirmed, transition: TransitionNoShow, want: models.StatusNoShow},

		{name: "confirm confirmed fails", current: models.StatusConfirmed, transition: TransitionConfirm, wantErr: true},
		{name: "complete pending fails", current: models.StatusPending, transition: TransitionComplete, wantErr: true},
		{name: "no-show pending fails", current: models.StatusPending, transition: TransitionNoShow, wantErr: true},
		{name: "cancel cancelled fails", current: models.StatusCancelled, transition: TransitionCancel, wantErr: true},
		{name: "cancel completed fails", current: models.StatusCompleted, transition: TransitionCancel, wantErr: true},
		{name: "confirm no-show fails", current: models.StatusNoShow, transition: TransitionConfirm, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := NextStatus(tc.current, tc.transition)
			if tc.wantErr {
				assert.True(t, IsCode(err, CodeInvalidTransition))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, next)
		})
	}
}

func TestCancelIsNotIdempotent(t *testing.T) {
	status, err := NextStatus(models.StatusConfirmed, TransitionCancel)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, status)

	// Cancelling again must fail rather than silently succeed.
	_, err = NextStatus(status, TransitionCancel)
	assert.True(t, IsCode(err, CodeInvalidTransition))
}

func TestIsLateCancellation(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: models.StatusConfirmed, StartAt: start}
	window := 24 * time.Hour

	assert.False(t, IsLateCancellation(b, start.Add(-48*time.Hour), window), "two days out is not late")
	assert.True(t, IsLateCancellation(b, start.Add(-1*time.Hour), window), "one hour out is late")
	assert.True(t, IsLateCancellation(b, start.Add(-window), window), "exactly at the window boundary is late")
	assert.False(t, IsLateCancellation(b, start.Add(-window-time.Second), window))
}

func TestCompletionDue(t *testing.T) {
	end := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: models.StatusConfirmed, EndAt: end}

	assert.False(t, CompletionDue(b, end.Add(-time.Minute)))
	assert.True(t, CompletionDue(b, end))
	assert.True(t, CompletionDue(b, end.Add(time.Hour)))
}

func TestNoShowDue(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: models.StatusConfirmed, StartAt: start}

	assert.False(t, NoShowDue(b, start))
	assert.True(t, NoShowDue(b, start.Add(time.Minute)))
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, CanBeCancelled(&models.Booking{Status: models.StatusPending}))
	assert.True(t, CanBeCancelled(&models.Booking{Status: models.StatusConfirmed}))
	assert.False(t, CanBeCancelled(&models.Booking{Status: models.StatusCompleted}))
	assert.False(t, CanBeCancelled(&models.Booking{Status: models.StatusCancelled}))
	assert.False(t, CanBeCancelled(&models.Booking{Status: models.StatusNoShow}))
}
