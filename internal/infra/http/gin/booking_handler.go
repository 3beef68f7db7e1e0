package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	BookingApp "stayhub/internal/app/handlers/booking"
	"stayhub/internal/app/queries"
	domainpricing "stayhub/internal/domain/pricing"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type reserveBookingRequest struct {
	RoomID        string      `json:"room_id"`
	GuestID       string      `json:"guest_id"`
	CheckIn       time.Time   `json:"check_in"`
	CheckOut      time.Time   `json:"check_out"`
	Adults        int         `json:"adults"`
	Children      int         `json:"children"`
	AddOns        []dto.AddOn `json:"add_ons"`
	ClientTotal   int64       `json:"client_total"`
	PaymentMethod string      `json:"payment_method"`
	TransactionID string      `json:"transaction_id"`
}

func (h BookingHandler) Reserve(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req reserveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addOns := make([]domainpricing.AddOn, 0, len(req.AddOns))
	for _, a := range req.AddOns {
		addOns = append(addOns, domainpricing.AddOn{Name: a.Name, Price: a.Price, Quantity: a.Quantity})
	}
	cmd := BookingApp.ReserveBookingCommand{
		CommandID:       generateCommandID(),
		RoomID:          req.RoomID,
		GuestID:         req.GuestID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Adults:          req.Adults,
		Children:        req.Children,
		AddOns:          addOns,
		ClientTotal:     req.ClientTotal,
		PaymentMethod:   req.PaymentMethod,
		TransactionID:   req.TransactionID,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.ReserveBookingCommand, *BookingApp.ReserveBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelBookingRequest struct {
	GuestID string `json:"guest_id"`
	Reason  string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.CancelBookingCommand{
		BookingID: c.Param("id"),
		GuestID:   req.GuestID,
		Reason:    req.Reason,
	}
	result, err := commands.Dispatch[BookingApp.CancelBookingCommand, *BookingApp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type modifyBookingRequest struct {
	GuestID     string    `json:"guest_id"`
	NewCheckIn  time.Time `json:"new_check_in"`
	NewCheckOut time.Time `json:"new_check_out"`
}

func (h BookingHandler) Modify(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req modifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.ModifyBookingCommand{
		BookingID:   c.Param("id"),
		GuestID:     req.GuestID,
		NewCheckIn:  req.NewCheckIn,
		NewCheckOut: req.NewCheckOut,
	}
	result, err := commands.Dispatch[BookingApp.ModifyBookingCommand, *BookingApp.ModifyBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListForGuest(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	q := BookingApp.ListGuestBookingsQuery{GuestID: c.Param("id")}
	result, err := queries.Ask[BookingApp.ListGuestBookingsQuery, []dto.Booking](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": result})
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
