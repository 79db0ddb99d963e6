package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/services/booking"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous payment gateway events.
type WebhookHandler struct {
	Svc booking.BookingService
}

func NewWebhookHandler(svc booking.BookingService) *WebhookHandler {
	return &WebhookHandler{Svc: svc}
}

// StripeWebhookHandler consumes Stripe payment-intent events. Events the
// booking engine does not care about are acknowledged and dropped; duplicate
// deliveries are deduplicated downstream by payment reference.
func (h *WebhookHandler) StripeWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	var status models.ChargeStatus
	switch event.Type {
	case "payment_intent.succeeded":
		status = models.ChargeSucceeded
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = models.ChargeFailed
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment intent payload"})
		return
	}

	evt := models.PaymentEvent{PaymentRef: intent.ID, Status: status}
	if err := h.Svc.RespondToPaymentEvent(c.Request.Context(), evt); err != nil {
		// Unknown references are acknowledged so the gateway stops retrying.
		if booking.IsCode(err, booking.CodeNotFound) {
			logger.Warn("payment event for unknown booking", zap.String("paymentRef", intent.ID))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		logger.Error("failed to process payment event",
			zap.String("paymentRef", intent.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
