package booking

import (
	"sort"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/utils"
)

const minutesPerDay = 24 * 60

// Interval is a half-open [Start,End) range in minutes from midnight.
// Adjacent intervals (one's End equals another's Start) do not overlap.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// windowsForDay collects the recurring open windows matching a weekday and
// unions overlapping or touching ones, so overlapping rules never yield
// duplicate candidate starts.
func windowsForDay(rules []models.AvailabilityRule, day time.Weekday) []Interval {
	var windows []Interval
	for _, r := range rules {
		if r.DayOfWeek == day {
			windows = append(windows, Interval{Start: r.Start, End: r.End})
		}
	}
	return mergeWindows(windows)
}

func mergeWindows(windows []Interval) []Interval {
	if len(windows) <= 1 {
		return windows
	}
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start == windows[j].Start {
			return windows[i].End < windows[j].End
		}
		return windows[i].Start < windows[j].Start
	})
	merged := windows[:1]
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// subtractAll removes every busy interval from the free set. A busy range can
// trim an interval, split it in two, or consume it entirely.
func subtractAll(free []Interval, busy []Interval) []Interval {
	for _, b := range busy {
		free = subtractOne(free, b)
	}
	return free
}

func subtractOne(free []Interval, busy Interval) []Interval {
	if busy.End <= busy.Start {
		return free
	}
	var out []Interval
	for _, f := range free {
		if !f.overlaps(busy) {
			out = append(out, f)
			continue
		}
		if f.Start < busy.Start {
			out = append(out, Interval{Start: f.Start, End: busy.Start})
		}
		if busy.End < f.End {
			out = append(out, Interval{Start: busy.End, End: f.End})
		}
	}
	return out
}

// blockedIntervalsOn clips absolute blocked ranges to one date, expressed in
// minutes from that date's midnight.
func blockedIntervalsOn(blocks []models.BlockedSlot, date string) []Interval {
	midnight, err := utils.ParseDate(date)
	if err != nil {
		return nil
	}
	dayEnd := midnight.Add(minutesPerDay * time.Minute)

	var out []Interval
	for _, b := range blocks {
		if !b.StartAt.Before(dayEnd) || !b.EndAt.After(midnight) {
			continue
		}
		start := 0
		if b.StartAt.After(midnight) {
			start = int(b.StartAt.Sub(midnight) / time.Minute)
		}
		end := minutesPerDay
		if b.EndAt.Before(dayEnd) {
			end = int(b.EndAt.Sub(midnight) / time.Minute)
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out
}

func bookingIntervals(bookings []models.Booking) []Interval {
	out := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Interval{Start: b.Start, End: b.End})
	}
	return out
}
