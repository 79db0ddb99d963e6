package provider

import (
	"context"
	"encoding/json"
	"time"

	availabilityRepo "github.com/tech282/ecosystem-platform-api/database/repository/availability"
	bookingRepo "github.com/tech282/ecosystem-platform-api/database/repository/booking"
	providerRepo "github.com/tech282/ecosystem-platform-api/database/repository/provider"
	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/services/booking"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderService manages provider profiles, their availability calendar, and
// the dashboard aggregates.
type ProviderService interface {
	Create(ctx context.Context, provider *models.Provider) (*models.Provider, error)
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	Update(ctx context.Context, provider *models.Provider) (*models.Provider, error)
	Delete(ctx context.Context, id string) error

	AddRule(ctx context.Context, providerID string, dayOfWeek time.Weekday, start, end int) (*models.AvailabilityRule, error)
	RemoveRule(ctx context.Context, providerID, ruleID string) error
	AddBlockedSlot(ctx context.Context, providerID string, startAt, endAt time.Time, reason string) (*models.BlockedSlot, error)
	RemoveBlockedSlot(ctx context.Context, providerID, slotID string) error
	Rules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)

	Dashboard(ctx context.Context, providerID string) (*models.ProviderDashboard, error)
}

// DefaultProviderService implements ProviderService.
type DefaultProviderService struct {
	Repo         providerRepo.ProviderRepository
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Cache        *redis.Client // optional, caches dashboard aggregates
	Clock        booking.Clock
}

const dashboardCacheTTL = 2 * time.Minute

func validateProfile(p *models.Provider) error {
	if p.UserID == "" {
		return booking.NewError(booking.CodeInvalidInput, "provider user id is required")
	}
	if p.DisplayName == "" {
		return booking.NewError(booking.CodeInvalidInput, "provider display name is required")
	}
	if p.CommissionRate < 0 || p.CommissionRate > 1 {
		return booking.NewError(booking.CodeInvalidInput, "commission rate %.2f must be within [0,1]", p.CommissionRate)
	}
	for _, svc := range p.Services {
		if svc.Name == "" {
			return booking.NewError(booking.CodeInvalidInput, "service name is required")
		}
		if svc.Price < 0 {
			return booking.NewError(booking.CodeInvalidInput, "service %q has negative price", svc.Name)
		}
		if svc.Duration <= 0 {
			return booking.NewError(booking.CodeInvalidInput, "service %q must have a positive duration", svc.Name)
		}
	}
	return nil
}

func (s *DefaultProviderService) Create(ctx context.Context, provider *models.Provider) (*models.Provider, error) {
	if err := validateProfile(provider); err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	provider.ID = uuid.New().String()
	provider.CreatedAt = now
	provider.UpdatedAt = now
	if err := s.Repo.Create(ctx, provider); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("provider created",
		zap.String("providerId", provider.ID), zap.String("userId", provider.UserID))
	return provider, nil
}

func (s *DefaultProviderService) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if err == providerRepo.ErrNotFound {
		return nil, booking.NewError(booking.CodeNotFound, "provider %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultProviderService) Update(ctx context.Context, provider *models.Provider) (*models.Provider, error) {
	if provider.ID == "" {
		return nil, booking.NewError(booking.CodeInvalidInput, "provider id is required")
	}
	if err := validateProfile(provider); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	provider.CreatedAt = existing.CreatedAt
	provider.CompletedBookings = existing.CompletedBookings
	provider.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Update(ctx, provider); err != nil {
		if err == providerRepo.ErrNotFound {
			return nil, booking.NewError(booking.CodeNotFound, "provider %s not found", provider.ID)
		}
		return nil, err
	}
	return provider, nil
}

func (s *DefaultProviderService) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if err == providerRepo.ErrNotFound {
		return booking.NewError(booking.CodeNotFound, "provider %s not found", id)
	}
	return err
}

func (s *DefaultProviderService) AddRule(ctx context.Context, providerID string, dayOfWeek time.Weekday, start, end int) (*models.AvailabilityRule, error) {
	if dayOfWeek < time.Sunday || dayOfWeek > time.Saturday {
		return nil, booking.NewError(booking.CodeInvalidInput, "invalid day of week %d", dayOfWeek)
	}
	// Zero-length and inverted windows are rejected at input.
	if start < 0 || end > 24*60 || end <= start {
		return nil, booking.NewError(booking.CodeInvalidInput, "window [%s,%s) is not a valid time range",
			utils.MinutesToClock(start), utils.MinutesToClock(end))
	}
	if _, err := s.GetByID(ctx, providerID); err != nil {
		return nil, err
	}

	rule := &models.AvailabilityRule{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		DayOfWeek:  dayOfWeek,
		Start:      start,
		End:        end,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Availability.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *DefaultProviderService) RemoveRule(ctx context.Context, providerID, ruleID string) error {
	err := s.Availability.DeleteRule(ctx, providerID, ruleID)
	if err == availabilityRepo.ErrNotFound {
		return booking.NewError(booking.CodeNotFound, "availability rule %s not found", ruleID)
	}
	return err
}

func (s *DefaultProviderService) AddBlockedSlot(ctx context.Context, providerID string, startAt, endAt time.Time, reason string) (*models.BlockedSlot, error) {
	if !endAt.After(startAt) {
		return nil, booking.NewError(booking.CodeInvalidInput, "blocked slot end must be after start")
	}
	if _, err := s.GetByID(ctx, providerID); err != nil {
		return nil, err
	}

	slot := &models.BlockedSlot{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		StartAt:    startAt.UTC(),
		EndAt:      endAt.UTC(),
		Reason:     reason,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Availability.CreateBlocked(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *DefaultProviderService) RemoveBlockedSlot(ctx context.Context, providerID, slotID string) error {
	err := s.Availability.DeleteBlocked(ctx, providerID, slotID)
	if err == availabilityRepo.ErrNotFound {
		return booking.NewError(booking.CodeNotFound, "blocked slot %s not found", slotID)
	}
	return err
}

func (s *DefaultProviderService) Rules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	if _, err := s.GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	return s.Availability.RulesForProvider(ctx, providerID)
}

func (s *DefaultProviderService) Dashboard(ctx context.Context, providerID string) (*models.ProviderDashboard, error) {
	if _, err := s.GetByID(ctx, providerID); err != nil {
		return nil, err
	}

	cacheKey := "dashboard:" + providerID
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var dashboard models.ProviderDashboard
			if err := json.Unmarshal([]byte(cached), &dashboard); err == nil {
				return &dashboard, nil
			}
		}
	}

	upcoming, err := s.Bookings.CountUpcoming(ctx, providerID, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	completed, err := s.Bookings.CountByProviderAndStatus(ctx, providerID, []models.BookingStatus{models.StatusCompleted})
	if err != nil {
		return nil, err
	}
	cancelled, err := s.Bookings.CountByProviderAndStatus(ctx, providerID, []models.BookingStatus{models.StatusCancelled, models.StatusNoShow})
	if err != nil {
		return nil, err
	}
	totalPayout, err := s.Bookings.SumPayoutByStatus(ctx, providerID, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	pendingPayout, err := s.Bookings.SumPayoutByStatus(ctx, providerID, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}

	dashboard := &models.ProviderDashboard{
		ProviderID:        providerID,
		UpcomingBookings:  upcoming,
		CompletedBookings: completed,
		CancelledBookings: cancelled,
		TotalPayout:       totalPayout,
		PendingPayout:     pendingPayout,
	}

	if s.Cache != nil {
		if data, err := json.Marshal(dashboard); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, dashboardCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache dashboard",
					zap.String("providerId", providerID), zap.Error(err))
			}
		}
	}
	return dashboard, nil
}
