package handlers

import (
	"net/http"

	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking use-cases over HTTP.
type BookingHandler struct {
	Svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// CreateGuestBookingHandler books a slot for an unauthenticated guest. The
// payload must carry guest contact details; the response includes the
// confirmation code the guest uses for status lookups.
func (h *BookingHandler) CreateGuestBookingHandler(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Customer.Guest == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest contact details are required"})
		return
	}
	input.Customer = models.GuestCustomer(*input.Customer.Guest)

	b, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// CreateBookingHandler books a slot for the authenticated user.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	input.Customer = models.RegisteredCustomer(c.GetString("actorID"))

	b, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// BookingStatusHandler is the public status lookup by confirmation code.
func (h *BookingHandler) BookingStatusHandler(c *gin.Context) {
	view, err := h.Svc.StatusByConfirmationCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MyBookingsHandler lists the authenticated customer's bookings.
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	bookings, err := h.Svc.ListForCustomer(c.Request.Context(), c.GetString("actorID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ProviderBookingsHandler lists the bookings for the actor's provider profile.
func (h *BookingHandler) ProviderBookingsHandler(c *gin.Context) {
	bookings, err := h.Svc.ListForProvider(c.Request.Context(), c.GetString("actorID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	b, err := h.Svc.Confirm(c.Request.Context(), c.GetString("actorID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	// Reason is optional; ignore bind errors on an empty body.
	_ = c.ShouldBindJSON(&input)

	b, err := h.Svc.Cancel(c.Request.Context(), c.GetString("actorID"), c.Param("id"), input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	b, err := h.Svc.Complete(c.Request.Context(), c.GetString("actorID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) NoShowBookingHandler(c *gin.Context) {
	b, err := h.Svc.MarkNoShow(c.Request.Context(), c.GetString("actorID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
