package availabilityRepo

import (
	"context"
	"errors"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
)

// ErrNotFound is returned when no rule or blocked slot matches the lookup.
var ErrNotFound = errors.New("availability record not found")

// AvailabilityRepository stores recurring rules and one-off blocked slots.
// Ordering is part of the contract: rules come back sorted by day then start,
// blocked slots by start time, so downstream merging is deterministic.
type AvailabilityRepository interface {
	RulesForProvider(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)
	CreateRule(ctx context.Context, rule *models.AvailabilityRule) error
	DeleteRule(ctx context.Context, providerID, ruleID string) error

	BlockedInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.BlockedSlot, error)
	CreateBlocked(ctx context.Context, slot *models.BlockedSlot) error
	DeleteBlocked(ctx context.Context, providerID, slotID string) error
}
