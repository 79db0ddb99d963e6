package providerRepo

import (
	"context"
	"errors"

	"github.com/tech282/ecosystem-platform-api/models"
)

// ErrNotFound is returned when no provider matches the lookup.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository is the persistence boundary for provider profiles.
type ProviderRepository interface {
	Create(ctx context.Context, provider *models.Provider) error
	FindByID(ctx context.Context, id string) (*models.Provider, error)
	FindByUserID(ctx context.Context, userID string) (*models.Provider, error)
	Update(ctx context.Context, provider *models.Provider) error
	Delete(ctx context.Context, id string) error

	// IncrementCompletedBookings bumps the provider's completed-booking
	// counter, a side effect of the complete transition.
	IncrementCompletedBookings(ctx context.Context, id string) error
}
