package provider

import (
	"context"
	"testing"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/services/booking"

	"github.com/stretchr/testify/assert"
)

type stubClock struct {
	t time.Time
}

func (c stubClock) Now() time.Time { return c.t }

func newValidationService() *DefaultProviderService {
	// Validation-only paths never reach the repositories.
	return &DefaultProviderService{Clock: stubClock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}}
}

func TestCreateRejectsInvalidProfiles(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Provider)
	}{
		{name: "missing user id", mutate: func(p *models.Provider) { p.UserID = "" }},
		{name: "missing display name", mutate: func(p *models.Provider) { p.DisplayName = "" }},
		{name: "negative commission", mutate: func(p *models.Provider) { p.CommissionRate = -0.1 }},
		{name: "commission above one", mutate: func(p *models.Provider) { p.CommissionRate = 1.5 }},
		{name: "unnamed service", mutate: func(p *models.Provider) { p.Services[0].Name = "" }},
		{name: "negative service price", mutate: func(p *models.Provider) { p.Services[0].Price = -5 }},
		{name: "zero service duration", mutate: func(p *models.Provider) { p.Services[0].Duration = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &models.Provider{
				UserID:         "user-1",
				DisplayName:    "Provider",
				CommissionRate: 0.2,
				Services:       []models.Service{{Name: "cut", Price: 30, Duration: 45}},
			}
			tc.mutate(p)

			_, err := newValidationService().Create(context.Background(), p)
			assert.True(t, booking.IsCode(err, booking.CodeInvalidInput))
		})
	}
}

func TestAddRuleRejectsInvalidWindows(t *testing.T) {
	svc := newValidationService()
	ctx := context.Background()

	_, err := svc.AddRule(ctx, "prov-1", time.Monday, 600, 600)
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput), "zero-length window")

	_, err = svc.AddRule(ctx, "prov-1", time.Monday, 700, 600)
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput), "inverted window")

	_, err = svc.AddRule(ctx, "prov-1", time.Monday, -10, 600)
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput), "negative start")

	_, err = svc.AddRule(ctx, "prov-1", time.Monday, 600, 24*60+30)
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput), "end past midnight")

	_, err = svc.AddRule(ctx, "prov-1", time.Weekday(9), 540, 1020)
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput), "bogus weekday")
}

func TestAddBlockedSlotRejectsInvertedRange(t *testing.T) {
	svc := newValidationService()
	at := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	_, err := svc.AddBlockedSlot(context.Background(), "prov-1", at, at, "")
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput))

	_, err = svc.AddBlockedSlot(context.Background(), "prov-1", at, at.Add(-time.Hour), "")
	assert.True(t, booking.IsCode(err, booking.CodeInvalidInput))
}
