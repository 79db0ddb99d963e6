package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tech282/ecosystem-platform-api/models"
	"github.com/tech282/ecosystem-platform-api/services/booking"
	"github.com/tech282/ecosystem-platform-api/services/provider"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes provider profiles, their availability calendar, and
// the slot listing endpoint.
type ProviderHandler struct {
	Svc      provider.ProviderService
	Resolver *booking.SlotResolver
}

func NewProviderHandler(svc provider.ProviderService, resolver *booking.SlotResolver) *ProviderHandler {
	return &ProviderHandler{Svc: svc, Resolver: resolver}
}

func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	p.UserID = c.GetString("actorID")

	created, err := h.Svc.Create(c.Request.Context(), &p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"provider": created})
}

func (h *ProviderHandler) GetProviderByIDHandler(c *gin.Context) {
	p, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": p})
}

func (h *ProviderHandler) UpdateProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	p.ID = c.Param("id")

	updated, err := h.Svc.Update(c.Request.Context(), &p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": updated})
}

func (h *ProviderHandler) DeleteProviderHandler(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AvailabilityHandler lists bookable start times for a provider. Query params:
// from and to as YYYY-MM-DD dates, duration in minutes.
func (h *ProviderHandler) AvailabilityHandler(c *gin.Context) {
	from, err := utils.ParseDate(c.DefaultQuery("from", time.Now().UTC().Format(utils.DateLayout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date"})
		return
	}
	to, err := utils.ParseDate(c.DefaultQuery("to", from.AddDate(0, 0, 6).Format(utils.DateLayout)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date"})
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'duration'"})
		return
	}

	seq, err := h.Resolver.AvailableStarts(c.Request.Context(), c.Param("id"), from, to, duration)
	if err != nil {
		respondError(c, err)
		return
	}

	slots := make([]models.SlotStart, 0, 32)
	for slot := range seq {
		slots = append(slots, slot)
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *ProviderHandler) AddRuleHandler(c *gin.Context) {
	var input struct {
		DayOfWeek int `json:"dayOfWeek" binding:"min=0,max=6"`
		Start     int `json:"start"`
		End       int `json:"end"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rule, err := h.Svc.AddRule(c.Request.Context(), c.Param("id"), time.Weekday(input.DayOfWeek), input.Start, input.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

func (h *ProviderHandler) ListRulesHandler(c *gin.Context) {
	rules, err := h.Svc.Rules(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *ProviderHandler) DeleteRuleHandler(c *gin.Context) {
	if err := h.Svc.RemoveRule(c.Request.Context(), c.Param("id"), c.Param("ruleId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *ProviderHandler) AddBlockedSlotHandler(c *gin.Context) {
	var input struct {
		StartAt time.Time `json:"startAt" binding:"required"`
		EndAt   time.Time `json:"endAt" binding:"required"`
		Reason  string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.Svc.AddBlockedSlot(c.Request.Context(), c.Param("id"), input.StartAt, input.EndAt, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"blockedSlot": slot})
}

func (h *ProviderHandler) DeleteBlockedSlotHandler(c *gin.Context) {
	if err := h.Svc.RemoveBlockedSlot(c.Request.Context(), c.Param("id"), c.Param("slotId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *ProviderHandler) DashboardHandler(c *gin.Context) {
	dashboard, err := h.Svc.Dashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
