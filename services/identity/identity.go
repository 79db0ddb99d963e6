package identity

import (
	"context"

	providerRepo "github.com/tech282/ecosystem-platform-api/database/repository/provider"
	"github.com/tech282/ecosystem-platform-api/models"
)

// DefaultIdentityProvider derives an actor's role from configuration and the
// provider profile store. Admins are configured by id; anyone who owns a
// provider profile acts as that provider; everyone else is a customer.
type DefaultIdentityProvider struct {
	Providers providerRepo.ProviderRepository
	AdminIDs  []string
}

func (p *DefaultIdentityProvider) Resolve(ctx context.Context, actorID string) (models.Actor, error) {
	for _, id := range p.AdminIDs {
		if id == actorID {
			return models.Actor{ID: actorID, Role: models.RoleAdmin}, nil
		}
	}

	provider, err := p.Providers.FindByUserID(ctx, actorID)
	if err == nil {
		return models.Actor{ID: actorID, Role: models.RoleProvider, ProviderID: provider.ID}, nil
	}
	if err != providerRepo.ErrNotFound {
		return models.Actor{}, err
	}

	return models.Actor{ID: actorID, Role: models.RoleCustomer}, nil
}
