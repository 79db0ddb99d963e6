package booking

import (
	"context"
	"time"

	bookingRepo "github.com/tech282/ecosystem-platform-api/database/repository/booking"
	"github.com/tech282/ecosystem-platform-api/models"

	"github.com/stretchr/testify/mock"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindByConfirmationCode(ctx context.Context, code string) (*models.Booking, error) {
	args := m.Called(ctx, code)
	if b := args.Get(0); b != nil {
		return b.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindByPaymentRef(ctx context.Context, paymentRef string) (*models.Booking, error) {
	args := m.Called(ctx, paymentRef)
	if b := args.Get(0); b != nil {
		return b.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindActiveOverlapping(ctx context.Context, providerID, date string, start, end int) ([]models.Booking, error) {
	args := m.Called(ctx, providerID, date, start, end)
	if b := args.Get(0); b != nil {
		return b.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindActiveBetween(ctx context.Context, providerID, fromDate, toDate string) ([]models.Booking, error) {
	args := m.Called(ctx, providerID, fromDate, toDate)
	if b := args.Get(0); b != nil {
		return b.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ApplyTransition(ctx context.Context, id string, from models.BookingStatus, upd bookingRepo.TransitionUpdate) (*models.Booking, error) {
	args := m.Called(ctx, id, from, upd)
	if b := args.Get(0); b != nil {
		return b.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ListByCustomer(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if b := args.Get(0); b != nil {
		return b.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	args := m.Called(ctx, providerID)
	if b := args.Get(0); b != nil {
		return b.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindEligibleForCompletion(ctx context.Context, asOf time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, asOf)
	if b := args.Get(0); b != nil {
		return b.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindEligibleForNoShow(ctx context.Context, asOf time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, asOf)
	if b := args.Get(0); b != nil {
		return b.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) CountByProviderAndStatus(ctx context.Context, providerID string, statuses []models.BookingStatus) (int64, error) {
	args := m.Called(ctx, providerID, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) CountUpcoming(ctx context.Context, providerID string, asOf time.Time) (int64, error) {
	args := m.Called(ctx, providerID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) SumPayoutByStatus(ctx context.Context, providerID string, status models.BookingStatus) (float64, error) {
	args := m.Called(ctx, providerID, status)
	return args.Get(0).(float64), args.Error(1)
}

type mockProviderRepo struct {
	mock.Mock
}

func (m *mockProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *mockProviderRepo) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Provider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProviderRepo) FindByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*models.Provider), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProviderRepo) Update(ctx context.Context, provider *models.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *mockProviderRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProviderRepo) IncrementCompletedBookings(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockAvailabilityRepo struct {
	mock.Mock
}

func (m *mockAvailabilityRepo) RulesForProvider(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	args := m.Called(ctx, providerID)
	if r := args.Get(0); r != nil {
		return r.([]models.AvailabilityRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAvailabilityRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *mockAvailabilityRepo) DeleteRule(ctx context.Context, providerID, ruleID string) error {
	return m.Called(ctx, providerID, ruleID).Error(0)
}

func (m *mockAvailabilityRepo) BlockedInRange(ctx context.Context, providerID string, from, to time.Time) ([]models.BlockedSlot, error) {
	args := m.Called(ctx, providerID, from, to)
	if b := args.Get(0); b != nil {
		return b.([]models.BlockedSlot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAvailabilityRepo) CreateBlocked(ctx context.Context, slot *models.BlockedSlot) error {
	return m.Called(ctx, slot).Error(0)
}

func (m *mockAvailabilityRepo) DeleteBlocked(ctx context.Context, providerID, slotID string) error {
	return m.Called(ctx, providerID, slotID).Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ChargeStatus(ctx context.Context, paymentRef string) (models.ChargeStatus, error) {
	args := m.Called(ctx, paymentRef)
	return args.Get(0).(models.ChargeStatus), args.Error(1)
}

type mockDeduper struct {
	mock.Mock
}

func (m *mockDeduper) MarkProcessed(ctx context.Context, paymentRef string) (bool, error) {
	args := m.Called(ctx, paymentRef)
	return args.Bool(0), args.Error(1)
}

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) Resolve(ctx context.Context, actorID string) (models.Actor, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(models.Actor), args.Error(1)
}
