package booking

import (
	"context"
	"time"

	bookingRepo "github.com/tech282/ecosystem-platform-api/database/repository/booking"
	providerRepo "github.com/tech282/ecosystem-platform-api/database/repository/provider"
	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityProvider resolves an opaque actor id into a role and owned
// resources for authorization checks.
type IdentityProvider interface {
	Resolve(ctx context.Context, actorID string) (models.Actor, error)
}

// CancellationPolicy is the pluggable hook invoked on late cancellations.
// The core only flags lateness; fee computation lives behind this interface.
type CancellationPolicy interface {
	OnLateCancellation(ctx context.Context, b *models.Booking)
}

// BookingService composes the resolver, state machine, and settlement
// calculator behind the booking use-cases.
type BookingService interface {
	Create(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error)
	Confirm(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	Cancel(ctx context.Context, actorID, bookingID, reason string) (*models.Booking, error)
	Complete(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	MarkNoShow(ctx context.Context, actorID, bookingID string) (*models.Booking, error)

	RespondToPaymentEvent(ctx context.Context, evt models.PaymentEvent) error
	SweepLifecycle(ctx context.Context, asOf time.Time) (int, error)

	StatusByConfirmationCode(ctx context.Context, code string) (models.BookingStatusView, error)
	ListForCustomer(ctx context.Context, actorID string) ([]models.Booking, error)
	ListForProvider(ctx context.Context, actorID string) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Resolver  *SlotResolver
	Gateway   PaymentGateway
	Identity  IdentityProvider
	Deduper   EventDeduper
	Policy    CancellationPolicy // optional
	Clock     Clock

	// CancellationWindow is how long before start a cancellation counts as late.
	CancellationWindow time.Duration
}

func (s *DefaultBookingService) Create(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !input.Customer.Valid() {
		return nil, NewError(CodeInvalidInput, "customer must be either a registered user or a guest contact")
	}
	if input.ServiceName == "" {
		return nil, NewError(CodeInvalidInput, "service name is required")
	}

	provider, err := s.Providers.FindByID(ctx, input.ProviderID)
	if err == providerRepo.ErrNotFound {
		return nil, NewError(CodeNotFound, "provider %s not found", input.ProviderID)
	}
	if err != nil {
		return nil, err
	}
	if !provider.IsActive {
		return nil, NewError(CodeNotFound, "provider %s is not active", input.ProviderID)
	}

	service, ok := provider.ServiceByName(input.ServiceName)
	if !ok {
		return nil, NewError(CodeInvalidInput, "provider does not offer service %q", input.ServiceName)
	}

	startAt, err := utils.CombineDateMinutes(input.Date, input.Start)
	if err != nil {
		return nil, NewError(CodeInvalidInput, "invalid booking date %q", input.Date)
	}
	now := s.Clock.Now()
	if startAt.Before(now) {
		return nil, NewError(CodeInvalidInput, "booking start %s is in the past", startAt.Format(time.RFC3339))
	}

	// Re-validate the requested slot; this guards the race between listing
	// availability and booking. The partial unique index is the final arbiter.
	free, err := s.Resolver.IsSlotFree(ctx, input.ProviderID, input.Date, input.Start, service.Duration)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, NewError(CodeSlotUnavailable, "slot %s %s is no longer available", input.Date, utils.MinutesToClock(input.Start))
	}

	platformFee, providerPayout, err := Settle(service.Price, provider.CommissionRate)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}

	end := input.Start + service.Duration
	endAt := startAt.Add(time.Duration(service.Duration) * time.Minute)

	booking := &models.Booking{
		ID:               uuid.New().String(),
		ProviderID:       provider.ID,
		Customer:         input.Customer,
		ServiceName:      service.Name,
		ServicePrice:     service.Price,
		ServiceDuration:  service.Duration,
		Date:             input.Date,
		Start:            input.Start,
		End:              end,
		StartAt:          startAt,
		EndAt:            endAt,
		Status:           models.StatusPending,
		TotalAmount:      platformFee + providerPayout,
		PlatformFee:      platformFee,
		ProviderPayout:   providerPayout,
		PaymentRef:       input.PaymentRef,
		ConfirmationCode: code,
		CustomerNotes:    input.CustomerNotes,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		if err == bookingRepo.ErrSlotTaken {
			// Lost the create race to a concurrent booking.
			return nil, wrapError(err, CodeSlotUnavailable, "slot was booked concurrently")
		}
		return nil, err
	}

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("providerId", booking.ProviderID),
		zap.String("date", booking.Date),
		zap.Int("start", booking.Start),
		zap.Bool("guest", booking.Customer.IsGuest()),
	)
	return booking, nil
}

func (s *DefaultBookingService) Confirm(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	actor, b, err := s.loadForTransition(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}
	if !canManageAsProvider(actor, b) {
		return nil, NewError(CodeUnauthorized, "actor %s may not confirm booking %s", actor.ID, b.ID)
	}

	next, err := NextStatus(b.Status, TransitionConfirm)
	if err != nil {
		return nil, err
	}

	if b.PaymentRef == "" {
		return nil, NewError(CodePaymentNotSettled, "booking %s has no payment reference", b.ID)
	}
	status, err := s.Gateway.ChargeStatus(ctx, b.PaymentRef)
	if err != nil {
		return nil, err
	}
	if status != models.ChargeSucceeded {
		return nil, NewError(CodePaymentNotSettled, "payment %s is %s, not succeeded", b.PaymentRef, status)
	}

	return s.apply(ctx, b, bookingRepo.TransitionUpdate{To: next, Active: true})
}

func (s *DefaultBookingService) Cancel(ctx context.Context, actorID, bookingID, reason string) (*models.Booking, error) {
	actor, b, err := s.loadForTransition(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}
	if !canCancel(actor, b) {
		return nil, NewError(CodeUnauthorized, "actor %s may not cancel booking %s", actor.ID, b.ID)
	}

	next, err := NextStatus(b.Status, TransitionCancel)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if IsLateCancellation(b, now, s.CancellationWindow) {
		utils.GetLogger().Info("late cancellation",
			zap.String("bookingId", b.ID),
			zap.Time("startAt", b.StartAt),
		)
		if s.Policy != nil {
			s.Policy.OnLateCancellation(ctx, b)
		}
	}

	return s.apply(ctx, b, bookingRepo.TransitionUpdate{
		To:                 next,
		Active:             false,
		CancellationReason: reason,
		CancelledBy:        actor.ID,
		CancelledAt:        &now,
	})
}

func (s *DefaultBookingService) Complete(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	actor, b, err := s.loadForTransition(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}
	if !canManageAsProvider(actor, b) {
		return nil, NewError(CodeUnauthorized, "actor %s may not complete booking %s", actor.ID, b.ID)
	}

	next, err := NextStatus(b.Status, TransitionComplete)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	if !CompletionDue(b, now) {
		return nil, NewError(CodeInvalidTransition, "booking %s has not ended yet", b.ID)
	}

	updated, err := s.apply(ctx, b, bookingRepo.TransitionUpdate{
		To:          next,
		Active:      false,
		CompletedAt: &now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Providers.IncrementCompletedBookings(ctx, b.ProviderID); err != nil {
		utils.GetLogger().Warn("failed to increment provider completed bookings",
			zap.String("providerId", b.ProviderID), zap.Error(err))
	}
	return updated, nil
}

func (s *DefaultBookingService) MarkNoShow(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	actor, b, err := s.loadForTransition(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}
	if !canManageAsProvider(actor, b) {
		return nil, NewError(CodeUnauthorized, "actor %s may not mark booking %s as no-show", actor.ID, b.ID)
	}

	next, err := NextStatus(b.Status, TransitionNoShow)
	if err != nil {
		return nil, err
	}
	if !NoShowDue(b, s.Clock.Now()) {
		return nil, NewError(CodeInvalidTransition, "booking %s has not started yet", b.ID)
	}

	return s.apply(ctx, b, bookingRepo.TransitionUpdate{To: next, Active: false})
}

// RespondToPaymentEvent consumes an asynchronous gateway notification.
// Deliveries are deduplicated by payment reference, so redelivering the same
// event cannot double-confirm.
func (s *DefaultBookingService) RespondToPaymentEvent(ctx context.Context, evt models.PaymentEvent) error {
	logger := utils.GetLogger()

	if evt.PaymentRef == "" {
		return NewError(CodeInvalidInput, "payment event has no payment reference")
	}
	if evt.Status == models.ChargePending {
		return nil
	}

	fresh, err := s.Deduper.MarkProcessed(ctx, evt.PaymentRef)
	if err != nil {
		return err
	}
	if !fresh {
		logger.Info("duplicate payment event ignored", zap.String("paymentRef", evt.PaymentRef))
		return nil
	}

	b, err := s.Repo.FindByPaymentRef(ctx, evt.PaymentRef)
	if err == bookingRepo.ErrNotFound {
		return NewError(CodeNotFound, "no booking for payment reference %s", evt.PaymentRef)
	}
	if err != nil {
		return err
	}

	switch evt.Status {
	case models.ChargeSucceeded:
		next, err := NextStatus(b.Status, TransitionConfirm)
		if err != nil {
			return err
		}
		_, err = s.apply(ctx, b, bookingRepo.TransitionUpdate{To: next, Active: true})
		return err
	case models.ChargeFailed:
		next, err := NextStatus(b.Status, TransitionCancel)
		if err != nil {
			return err
		}
		now := s.Clock.Now()
		_, err = s.apply(ctx, b, bookingRepo.TransitionUpdate{
			To:                 next,
			Active:             false,
			CancellationReason: "payment failed",
			CancelledBy:        models.SystemActor.ID,
			CancelledAt:        &now,
		})
		return err
	}
	return NewError(CodeInvalidInput, "unknown charge status %q", evt.Status)
}

// SweepLifecycle completes every confirmed booking whose end time has passed
// as of the given instant. It is driven by the periodic worker; the core never
// schedules itself.
func (s *DefaultBookingService) SweepLifecycle(ctx context.Context, asOf time.Time) (int, error) {
	logger := utils.GetLogger()

	eligible, err := s.Repo.FindEligibleForCompletion(ctx, asOf)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range eligible {
		b := &eligible[i]
		if _, err := s.apply(ctx, b, bookingRepo.TransitionUpdate{
			To:          models.StatusCompleted,
			Active:      false,
			CompletedAt: &asOf,
		}); err != nil {
			// A concurrent actor transition may have won; skip and move on.
			logger.Warn("sweep skipped booking", zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		if err := s.Providers.IncrementCompletedBookings(ctx, b.ProviderID); err != nil {
			logger.Warn("failed to increment provider completed bookings",
				zap.String("providerId", b.ProviderID), zap.Error(err))
		}
		completed++
	}
	return completed, nil
}

func (s *DefaultBookingService) StatusByConfirmationCode(ctx context.Context, code string) (models.BookingStatusView, error) {
	if code == "" {
		return models.BookingStatusView{}, NewError(CodeInvalidInput, "confirmation code is required")
	}
	b, err := s.Repo.FindByConfirmationCode(ctx, code)
	if err == bookingRepo.ErrNotFound {
		return models.BookingStatusView{}, NewError(CodeNotFound, "no booking with confirmation code %s", code)
	}
	if err != nil {
		return models.BookingStatusView{}, err
	}
	return b.ToStatusView(), nil
}

func (s *DefaultBookingService) ListForCustomer(ctx context.Context, actorID string) ([]models.Booking, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByCustomer(ctx, actor.ID)
}

func (s *DefaultBookingService) ListForProvider(ctx context.Context, actorID string) ([]models.Booking, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.ProviderID == "" && actor.Role != models.RoleAdmin {
		return nil, NewError(CodeUnauthorized, "actor %s does not own a provider profile", actor.ID)
	}
	return s.Repo.ListByProvider(ctx, actor.ProviderID)
}

// --- helpers ---

func (s *DefaultBookingService) resolveActor(ctx context.Context, actorID string) (models.Actor, error) {
	actor, err := s.Identity.Resolve(ctx, actorID)
	if err != nil {
		return models.Actor{}, wrapError(err, CodeUnauthorized, "could not resolve actor "+actorID)
	}
	return actor, nil
}

func (s *DefaultBookingService) loadForTransition(ctx context.Context, actorID, bookingID string) (models.Actor, *models.Booking, error) {
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return models.Actor{}, nil, err
	}
	b, err := s.Repo.FindByID(ctx, bookingID)
	if err == bookingRepo.ErrNotFound {
		return models.Actor{}, nil, NewError(CodeNotFound, "booking %s not found", bookingID)
	}
	if err != nil {
		return models.Actor{}, nil, err
	}
	return actor, b, nil
}

// apply performs a status-preconditioned transition; losing a concurrent
// transition surfaces as INVALID_TRANSITION, which callers must not retry
// blindly.
func (s *DefaultBookingService) apply(ctx context.Context, b *models.Booking, upd bookingRepo.TransitionUpdate) (*models.Booking, error) {
	updated, err := s.Repo.ApplyTransition(ctx, b.ID, b.Status, upd)
	if err == bookingRepo.ErrStaleStatus {
		return nil, wrapError(err, CodeInvalidTransition, "booking status changed concurrently")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func canManageAsProvider(actor models.Actor, b *models.Booking) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSystem:
		return true
	}
	return actor.ProviderID != "" && actor.ProviderID == b.ProviderID
}

func canCancel(actor models.Actor, b *models.Booking) bool {
	if canManageAsProvider(actor, b) {
		return true
	}
	return !b.Customer.IsGuest() && actor.ID == b.Customer.UserID
}
