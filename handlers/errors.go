package handlers

import (
	"errors"
	"net/http"

	"github.com/tech282/ecosystem-platform-api/services/booking"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError translates a service error into an HTTP response. Coded errors
// map to client statuses; anything unclassified is a 500 and gets logged.
func respondError(c *gin.Context, err error) {
	var svcErr *booking.Error
	if !errors.As(err, &svcErr) {
		utils.GetLogger().Error("unhandled service error",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case booking.CodeInvalidInput, booking.CodeInvalidRange:
		status = http.StatusBadRequest
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeSlotUnavailable, booking.CodeInvalidTransition:
		status = http.StatusConflict
	case booking.CodePaymentNotSettled:
		status = http.StatusPaymentRequired
	case booking.CodeUnauthorized:
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": svcErr.Message, "code": svcErr.Code})
}
