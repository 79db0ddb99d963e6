package booking

import (
	"context"
	"testing"
	"time"

	bookingRepo "github.com/tech282/ecosystem-platform-api/database/repository/booking"
	"github.com/tech282/ecosystem-platform-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc      *DefaultBookingService
	books    *mockBookingRepo
	provs    *mockProviderRepo
	avail    *mockAvailabilityRepo
	gateway  *mockGateway
	identity *mockIdentity
	deduper  *mockDeduper
}

func newServiceFixture(now time.Time) *serviceFixture {
	books := new(mockBookingRepo)
	provs := new(mockProviderRepo)
	avail := new(mockAvailabilityRepo)
	gateway := new(mockGateway)
	ident := new(mockIdentity)
	deduper := new(mockDeduper)
	clock := fixedClock{t: now}

	svc := &DefaultBookingService{
		Repo:      books,
		Providers: provs,
		Resolver: &SlotResolver{
			Providers:        provs,
			Availability:     avail,
			Bookings:         books,
			Clock:            clock,
			Granularity:      30,
			MaxLookaheadDays: 90,
		},
		Gateway:            gateway,
		Identity:           ident,
		Deduper:            deduper,
		Clock:              clock,
		CancellationWindow: 24 * time.Hour,
	}
	return &serviceFixture{svc: svc, books: books, provs: provs, avail: avail, gateway: gateway, identity: ident, deduper: deduper}
}

func bookableProvider() *models.Provider {
	return &models.Provider{
		ID:             testProviderID,
		UserID:         "user-p",
		DisplayName:    "Test Provider",
		IsActive:       true,
		CommissionRate: 0.20,
		Services: []models.Service{
			{Name: "massage", Price: 100.00, Duration: 60},
		},
	}
}

func (f *serviceFixture) stubFreeSlot() {
	f.provs.On("FindByID", mock.Anything, testProviderID).Return(bookableProvider(), nil)
	f.avail.On("RulesForProvider", mock.Anything, testProviderID).Return([]models.AvailabilityRule{
		{ProviderID: testProviderID, DayOfWeek: time.Monday, Start: 540, End: 1020},
	}, nil)
	f.avail.On("BlockedInRange", mock.Anything, testProviderID, mock.Anything, mock.Anything).Return([]models.BlockedSlot{}, nil)
	f.books.On("FindActiveOverlapping", mock.Anything, testProviderID, "2026-03-09", mock.Anything, mock.Anything).Return([]models.Booking{}, nil)
}

func guestInput() models.CreateBookingInput {
	return models.CreateBookingInput{
		ProviderID:  testProviderID,
		Customer:    models.GuestCustomer(models.GuestContact{Name: "Ada", Email: "ada@example.com"}),
		ServiceName: "massage",
		Date:        "2026-03-09",
		Start:       600,
		PaymentRef:  "pi_123",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newServiceFixture(monday.AddDate(0, 0, -1))
	f.stubFreeSlot()
	f.books.On("Create", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.Create(context.Background(), guestInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, b.Status)
	assert.True(t, b.Active)
	assert.Equal(t, 660, b.End)
	assert.Equal(t, monday.Add(10*time.Hour), b.StartAt)
	assert.Equal(t, monday.Add(11*time.Hour), b.EndAt)
	assert.InDelta(t, 20.00, b.PlatformFee, 1e-9)
	assert.InDelta(t, 80.00, b.ProviderPayout, 1e-9)
	assert.InDelta(t, 100.00, b.TotalAmount, 1e-9)
	assert.NotEmpty(t, b.ConfirmationCode)
	assert.True(t, b.Customer.IsGuest())
}

func TestCreateBookingLosesRace(t *testing.T) {
	f := newServiceFixture(monday.AddDate(0, 0, -1))
	f.stubFreeSlot()
	f.books.On("Create", mock.Anything, mock.Anything).Return(bookingRepo.ErrSlotTaken)

	_, err := f.svc.Create(context.Background(), guestInput())
	assert.True(t, IsCode(err, CodeSlotUnavailable))
}

func TestCreateBookingOccupiedSlot(t *testing.T) {
	f := newServiceFixture(monday.AddDate(0, 0, -1))
	f.provs.On("FindByID", mock.Anything, testProviderID).Return(bookableProvider(), nil)
	f.avail.On("RulesForProvider", mock.Anything, testProviderID).Return([]models.AvailabilityRule{
		{ProviderID: testProviderID, DayOfWeek: time.Monday, Start: 540, End: 1020},
	}, nil)
	f.avail.On("BlockedInRange", mock.Anything, testProviderID, mock.Anything, mock.Anything).Return([]models.BlockedSlot{}, nil)
	f.books.On("FindActiveOverlapping", mock.Anything, testProviderID, "2026-03-09", mock.Anything, mock.Anything).Return([]models.Booking{
		{Start: 600, End: 660, Status: models.StatusConfirmed},
	}, nil)

	_, err := f.svc.Create(context.Background(), guestInput())
	assert.True(t, IsCode(err, CodeSlotUnavailable))
}

func TestCreateBookingValidation(t *testing.T) {
	f := newServiceFixture(monday.AddDate(0, 0, -1))
	f.stubFreeSlot()

	t.Run("no customer identity", func(t *testing.T) {
		input := guestInput()
		input.Customer = models.Customer{}
		_, err := f.svc.Create(context.Background(), input)
		assert.True(t, IsCode(err, CodeInvalidInput))
	})

	t.Run("both identities set", func(t *testing.T) {
		input := guestInput()
		input.Customer.UserID = "user-1"
		_, err := f.svc.Create(context.Background(), input)
		assert.True(t, IsCode(err, CodeInvalidInput))
	})

	t.Run("unknown service", func(t *testing.T) {
		input := guestInput()
		input.ServiceName = "yodeling"
		_, err := f.svc.Create(context.Background(), input)
		assert.True(t, IsCode(err, CodeInvalidInput))
	})

	t.Run("start in the past", func(t *testing.T) {
		input := guestInput()
		input.Date = "2026-03-02"
		_, err := f.svc.Create(context.Background(), input)
		assert.True(t, IsCode(err, CodeInvalidInput))
	})
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:         "bk-1",
		ProviderID: testProviderID,
		Customer:   models.RegisteredCustomer("user-c"),
		Date:       "2026-03-09",
		Start:      600,
		End:        660,
		StartAt:    monday.Add(10 * time.Hour),
		EndAt:      monday.Add(11 * time.Hour),
		Status:     models.StatusPending,
		PaymentRef: "pi_123",
		Active:     true,
	}
}

var providerActor = models.Actor{ID: "user-p", Role: models.RoleProvider, ProviderID: testProviderID}

func TestConfirmBooking(t *testing.T) {
	f := newServiceFixture(monday)
	b := pendingBooking()
	confirmed := *b
	confirmed.Status = models.StatusConfirmed

	f.identity.On("Resolve", mock.Anything, "user-p").Return(providerActor, nil)
	f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)
	f.gateway.On("ChargeStatus", mock.Anything, "pi_123").Return(models.ChargeSucceeded, nil)
	f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusPending, mock.Anything).Return(&confirmed, nil)

	got, err := f.svc.Confirm(context.Background(), "user-p", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestConfirmRequiresSettledPayment(t *testing.T) {
	t.Run("charge still pending", func(t *testing.T) {
		f := newServiceFixture(monday)
		f.identity.On("Resolve", mock.Anything, "user-p").Return(providerActor, nil)
		f.books.On("FindByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)
		f.gateway.On("ChargeStatus", mock.Anything, "pi_123").Return(models.ChargePending, nil)

		_, err := f.svc.Confirm(context.Background(), "user-p", "bk-1")
		assert.True(t, IsCode(err, CodePaymentNotSettled))
	})

	t.Run("no payment reference", func(t *testing.T) {
		f := newServiceFixture(monday)
		b := pendingBooking()
		b.PaymentRef = ""
		f.identity.On("Resolve", mock.Anything, "user-p").Return(providerActor, nil)
		f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)

		_, err := f.svc.Confirm(context.Background(), "user-p", "bk-1")
		assert.True(t, IsCode(err, CodePaymentNotSettled))
	})
}

func TestConfirmUnauthorized(t *testing.T) {
	f := newServiceFixture(monday)
	f.identity.On("Resolve", mock.Anything, "user-x").Return(models.Actor{ID: "user-x", Role: models.RoleCustomer}, nil)
	f.books.On("FindByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)

	_, err := f.svc.Confirm(context.Background(), "user-x", "bk-1")
	assert.True(t, IsCode(err, CodeUnauthorized))
}

func TestCancelBooking(t *testing.T) {
	t.Run("customer cancels own booking", func(t *testing.T) {
		f := newServiceFixture(monday.AddDate(0, 0, -3))
		b := pendingBooking()
		cancelled := *b
		cancelled.Status = models.StatusCancelled

		f.identity.On("Resolve", mock.Anything, "user-c").Return(models.Actor{ID: "user-c", Role: models.RoleCustomer}, nil)
		f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)
		f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusPending, mock.MatchedBy(func(upd bookingRepo.TransitionUpdate) bool {
			return upd.To == models.StatusCancelled && !upd.Active && upd.CancelledBy == "user-c"
		})).Return(&cancelled, nil)

		got, err := f.svc.Cancel(context.Background(), "user-c", "bk-1", "changed plans")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)
	})

	t.Run("stranger may not cancel", func(t *testing.T) {
		f := newServiceFixture(monday)
		f.identity.On("Resolve", mock.Anything, "user-x").Return(models.Actor{ID: "user-x", Role: models.RoleCustomer}, nil)
		f.books.On("FindByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)

		_, err := f.svc.Cancel(context.Background(), "user-x", "bk-1", "")
		assert.True(t, IsCode(err, CodeUnauthorized))
	})

	t.Run("cancelling a cancelled booking fails", func(t *testing.T) {
		f := newServiceFixture(monday)
		b := pendingBooking()
		b.Status = models.StatusCancelled
		b.Active = false
		f.identity.On("Resolve", mock.Anything, "user-c").Return(models.Actor{ID: "user-c", Role: models.RoleCustomer}, nil)
		f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)

		_, err := f.svc.Cancel(context.Background(), "user-c", "bk-1", "")
		assert.True(t, IsCode(err, CodeInvalidTransition))
	})

	t.Run("losing a concurrent transition", func(t *testing.T) {
		f := newServiceFixture(monday.AddDate(0, 0, -3))
		f.identity.On("Resolve", mock.Anything, "user-c").Return(models.Actor{ID: "user-c", Role: models.RoleCustomer}, nil)
		f.books.On("FindByID", mock.Anything, "bk-1").Return(pendingBooking(), nil)
		f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusPending, mock.Anything).Return(nil, bookingRepo.ErrStaleStatus)

		_, err := f.svc.Cancel(context.Background(), "user-c", "bk-1", "")
		assert.True(t, IsCode(err, CodeInvalidTransition))
	})
}

type recordingPolicy struct {
	calls []string
}

func (p *recordingPolicy) OnLateCancellation(_ context.Context, b *models.Booking) {
	p.calls = append(p.calls, b.ID)
}

func TestCancelInvokesLatePolicy(t *testing.T) {
	// One hour before start, inside the 24h window.
	f := newServiceFixture(monday.Add(9 * time.Hour))
	policy := &recordingPolicy{}
	f.svc.Policy = policy

	b := pendingBooking()
	cancelled := *b
	cancelled.Status = models.StatusCancelled

	f.identity.On("Resolve", mock.Anything, "user-c").Return(models.Actor{ID: "user-c", Role: models.RoleCustomer}, nil)
	f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)
	f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusPending, mock.Anything).Return(&cancelled, nil)

	_, err := f.svc.Cancel(context.Background(), "user-c", "bk-1", "sorry")
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-1"}, policy.calls)
}

func TestCompleteBooking(t *testing.T) {
	f := newServiceFixture(monday.Add(12 * time.Hour))
	b := pendingBooking()
	b.Status = models.StatusConfirmed
	completed := *b
	completed.Status = models.StatusCompleted

	f.identity.On("Resolve", mock.Anything, "user-p").Return(providerActor, nil)
	f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)
	f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusConfirmed, mock.Anything).Return(&completed, nil)
	f.provs.On("IncrementCompletedBookings", mock.Anything, testProviderID).Return(nil)

	got, err := f.svc.Complete(context.Background(), "user-p", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	f.provs.AssertCalled(t, "IncrementCompletedBookings", mock.Anything, testProviderID)
}

func TestCompleteBeforeEndFails(t *testing.T) {
	f := newServiceFixture(monday.Add(10*time.Hour + 30*time.Minute))
	b := pendingBooking()
	b.Status = models.StatusConfirmed

	f.identity.On("Resolve", mock.Anything, "user-p").Return(providerActor, nil)
	f.books.On("FindByID", mock.Anything, "bk-1").Return(b, nil)

	_, err := f.svc.Complete(context.Background(), "user-p", "bk-1")
	assert.True(t, IsCode(err, CodeInvalidTransition))
}

func TestRespondToPaymentEvent(t *testing.T) {
	t.Run("success confirms the booking", func(t *testing.T) {
		f := newServiceFixture(monday)
		b := pendingBooking()
		confirmed := *b
		confirmed.Status = models.StatusConfirmed

		f.deduper.On("MarkProcessed", mock.Anything, "pi_123").Return(true, nil)
		f.books.On("FindByPaymentRef", mock.Anything, "pi_123").Return(b, nil)
		f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusPending, mock.Anything).Return(&confirmed, nil)

		err := f.svc.RespondToPaymentEvent(context.Background(), models.PaymentEvent{PaymentRef: "pi_123", Status: models.ChargeSucceeded})
		require.NoError(t, err)
	})

	t.Run("failure cancels the booking", func(t *testing.T) {
		f := newServiceFixture(monday)
		b := pendingBooking()
		cancelled := *b
		cancelled.Status = models.StatusCancelled

		f.deduper.On("MarkProcessed", mock.Anything, "pi_123").Return(true, nil)
		f.books.On("FindByPaymentRef", mock.Anything, "pi_123").Return(b, nil)
		f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusPending, mock.MatchedBy(func(upd bookingRepo.TransitionUpdate) bool {
			return upd.To == models.StatusCancelled && upd.CancellationReason == "payment failed"
		})).Return(&cancelled, nil)

		err := f.svc.RespondToPaymentEvent(context.Background(), models.PaymentEvent{PaymentRef: "pi_123", Status: models.ChargeFailed})
		require.NoError(t, err)
	})

	t.Run("duplicate delivery is dropped", func(t *testing.T) {
		f := newServiceFixture(monday)
		f.deduper.On("MarkProcessed", mock.Anything, "pi_123").Return(false, nil)

		err := f.svc.RespondToPaymentEvent(context.Background(), models.PaymentEvent{PaymentRef: "pi_123", Status: models.ChargeSucceeded})
		require.NoError(t, err)
		f.books.AssertNotCalled(t, "FindByPaymentRef", mock.Anything, mock.Anything)
	})

	t.Run("pending status is a no-op", func(t *testing.T) {
		f := newServiceFixture(monday)
		err := f.svc.RespondToPaymentEvent(context.Background(), models.PaymentEvent{PaymentRef: "pi_123", Status: models.ChargePending})
		require.NoError(t, err)
		f.deduper.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
	})
}

func TestSweepLifecycle(t *testing.T) {
	f := newServiceFixture(monday.Add(20 * time.Hour))
	asOf := monday.Add(20 * time.Hour)

	first := *pendingBooking()
	first.Status = models.StatusConfirmed
	second := first
	second.ID = "bk-2"

	firstDone := first
	firstDone.Status = models.StatusCompleted

	f.books.On("FindEligibleForCompletion", mock.Anything, asOf).Return([]models.Booking{first, second}, nil)
	f.books.On("ApplyTransition", mock.Anything, "bk-1", models.StatusConfirmed, mock.Anything).Return(&firstDone, nil)
	// The second booking was transitioned concurrently; the sweep moves on.
	f.books.On("ApplyTransition", mock.Anything, "bk-2", models.StatusConfirmed, mock.Anything).Return(nil, bookingRepo.ErrStaleStatus)
	f.provs.On("IncrementCompletedBookings", mock.Anything, testProviderID).Return(nil)

	count, err := f.svc.SweepLifecycle(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStatusByConfirmationCode(t *testing.T) {
	f := newServiceFixture(monday)
	b := pendingBooking()
	b.ConfirmationCode = "BK-ABCD1234"
	b.ServiceName = "massage"
	f.books.On("FindByConfirmationCode", mock.Anything, "BK-ABCD1234").Return(b, nil)
	f.books.On("FindByConfirmationCode", mock.Anything, "BK-MISSING1").Return(nil, bookingRepo.ErrNotFound)

	view, err := f.svc.StatusByConfirmationCode(context.Background(), "BK-ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.Equal(t, "massage", view.ServiceName)

	_, err = f.svc.StatusByConfirmationCode(context.Background(), "BK-MISSING1")
	assert.True(t, IsCode(err, CodeNotFound))
}
