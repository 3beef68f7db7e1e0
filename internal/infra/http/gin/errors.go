package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "stayhub/internal/app/handlers/booking"
	domainbooking "stayhub/internal/domain/booking"
	domainroom "stayhub/internal/domain/room"
	domainrange "stayhub/internal/domain/shared/daterange"
)

// respondError maps domain errors onto HTTP responses, keeping the typed
// payloads (conflicting ranges, refund windows, price expectations) that
// clients need to recover without a second round trip.
func respondError(c *gin.Context, err error) {
	var conflict *domainbooking.ConflictError
	if errors.As(err, &conflict) {
		ranges := make([]gin.H, 0, len(conflict.Conflicts))
		for _, rec := range conflict.Conflicts {
			ranges = append(ranges, gin.H{
				"reservation_id": rec.ID,
				"check_in":       rec.Range.CheckIn,
				"check_out":      rec.Range.CheckOut,
			})
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "conflicts": ranges})
		return
	}

	var mismatch *domainbooking.PriceMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    err.Error(),
			"expected": mismatch.Expected,
			"received": mismatch.Received,
		})
		return
	}

	var cancelWindow *domainbooking.CancellationWindowError
	if errors.As(err, &cancelWindow) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                err.Error(),
			"hours_until_check_in": cancelWindow.HoursUntilCheckIn,
			"min_notice_hours":     cancelWindow.MinNoticeHours,
		})
		return
	}

	var modifyWindow *domainbooking.ModificationWindowError
	if errors.As(err, &modifyWindow) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                err.Error(),
			"hours_until_check_in": modifyWindow.HoursUntilCheckIn,
			"min_notice_hours":     modifyWindow.MinNoticeHours,
		})
		return
	}

	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainroom.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNotBookingGuest):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrConcurrencyExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainroom.ErrInactive),
		errors.Is(err, domainbooking.ErrAlreadyCancelled),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrCheckInInPast),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrGuestIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
