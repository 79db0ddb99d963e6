package models

import "time"

// AvailabilityRule is a recurring weekly open window for a provider.
// Rules may overlap; the slot resolver unions them per day.
type AvailabilityRule struct {
	ID         string       `bson:"_id" json:"id"`
	ProviderID string       `bson:"providerId" json:"providerId"`
	DayOfWeek  time.Weekday `bson:"dayOfWeek" json:"dayOfWeek"`
	Start      int          `bson:"start" json:"start"` // minutes from midnight
	End        int          `bson:"end" json:"end"`     // minutes from midnight
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
}

// BlockedSlot is a one-off override making a provider unavailable for a range,
// even if a recurring rule would otherwise open it.
type BlockedSlot struct {
	ID         string    `bson:"_id" json:"id"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	StartAt    time.Time `bson:"startAt" json:"startAt"`
	EndAt      time.Time `bson:"endAt" json:"endAt"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// SlotStart is one bookable start offered by the slot resolver.
type SlotStart struct {
	Date  string `json:"date"`  // "YYYY-MM-DD"
	Start int    `json:"start"` // minutes from midnight
}
