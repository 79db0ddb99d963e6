package booking

import (
	"context"
	"iter"
	"time"

	availabilityRepo "github.com/tech282/ecosystem-platform-api/database/repository/availability"
	bookingRepo "github.com/tech282/ecosystem-platform-api/database/repository/booking"
	providerRepo "github.com/tech282/ecosystem-platform-api/database/repository/provider"
	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/utils"
)

// SlotResolver computes bookable start times for a provider over a date range
// by combining recurring availability, blocked slots, and existing
// pending/confirmed bookings. Booking rows are the only occupancy ledger:
// there is no separate reservation table.
type SlotResolver struct {
	Providers    providerRepo.ProviderRepository
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Clock        Clock

	// Granularity is the step between emitted candidate starts, in minutes.
	Granularity int
	// MaxLookaheadDays bounds how far into the future a range may reach.
	MaxLookaheadDays int
}

// AvailableStarts returns the candidate start times for a service of the given
// duration, as a lazy restartable sequence ordered by date then start. The
// underlying data is fetched once up front, so iterating twice yields the same
// snapshot.
func (r *SlotResolver) AvailableStarts(ctx context.Context, providerID string, from, to time.Time, durationMin int) (iter.Seq[models.SlotStart], error) {
	if durationMin <= 0 {
		return nil, NewError(CodeInvalidInput, "service duration must be positive, got %d", durationMin)
	}
	if from.After(to) {
		return nil, NewError(CodeInvalidRange, "range start %s is after range end %s", from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	}
	if to.Sub(from) > time.Duration(r.MaxLookaheadDays)*24*time.Hour {
		return nil, NewError(CodeInvalidRange, "range exceeds maximum lookahead of %d days", r.MaxLookaheadDays)
	}

	if err := r.requireActiveProvider(ctx, providerID); err != nil {
		return nil, err
	}

	rules, err := r.Availability.RulesForProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	blocks, err := r.Availability.BlockedInRange(ctx, providerID, from, to.Add(minutesPerDay*time.Minute))
	if err != nil {
		return nil, err
	}
	bookings, err := r.Bookings.FindActiveBetween(ctx, providerID,
		from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	if err != nil {
		return nil, err
	}

	bookedByDate := make(map[string][]models.Booking)
	for _, b := range bookings {
		bookedByDate[b.Date] = append(bookedByDate[b.Date], b)
	}

	now := r.Clock.Now()
	step := r.Granularity

	return func(yield func(models.SlotStart) bool) {
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			date := day.Format(utils.DateLayout)

			free := windowsForDay(rules, day.Weekday())
			free = subtractAll(free, blockedIntervalsOn(blocks, date))
			free = subtractAll(free, bookingIntervals(bookedByDate[date]))

			for _, iv := range free {
				for start := iv.Start; start+durationMin <= iv.End; start += step {
					at, err := utils.CombineDateMinutes(date, start)
					if err != nil || at.Before(now) {
						continue
					}
					if !yield(models.SlotStart{Date: date, Start: start}) {
						return
					}
				}
			}
		}
	}, nil
}

// IsSlotFree re-validates a single requested slot, guarding the race between
// listing availability and creating the booking. The persistence-level
// uniqueness constraint remains the final arbiter.
func (r *SlotResolver) IsSlotFree(ctx context.Context, providerID, date string, start, durationMin int) (bool, error) {
	if durationMin <= 0 {
		return false, NewError(CodeInvalidInput, "service duration must be positive, got %d", durationMin)
	}
	if start < 0 || start+durationMin > minutesPerDay {
		return false, NewError(CodeInvalidInput, "slot [%d,%d) does not fit in a day", start, start+durationMin)
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return false, NewError(CodeInvalidInput, "invalid booking date %q", date)
	}

	if err := r.requireActiveProvider(ctx, providerID); err != nil {
		return false, err
	}

	rules, err := r.Availability.RulesForProvider(ctx, providerID)
	if err != nil {
		return false, err
	}
	blocks, err := r.Availability.BlockedInRange(ctx, providerID, day, day.Add(minutesPerDay*time.Minute))
	if err != nil {
		return false, err
	}
	booked, err := r.Bookings.FindActiveOverlapping(ctx, providerID, date, start, start+durationMin)
	if err != nil {
		return false, err
	}
	if len(booked) > 0 {
		return false, nil
	}

	free := windowsForDay(rules, day.Weekday())
	free = subtractAll(free, blockedIntervalsOn(blocks, date))

	for _, iv := range free {
		if start >= iv.Start && start+durationMin <= iv.End {
			return true, nil
		}
	}
	return false, nil
}

func (r *SlotResolver) requireActiveProvider(ctx context.Context, providerID string) error {
	provider, err := r.Providers.FindByID(ctx, providerID)
	if err == providerRepo.ErrNotFound {
		return NewError(CodeNotFound, "provider %s not found", providerID)
	}
	if err != nil {
		return err
	}
	if !provider.IsActive {
		return NewError(CodeNotFound, "provider %s is not active", providerID)
	}
	return nil
}
