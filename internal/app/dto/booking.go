package dto

import (
	"time"

	domainbooking "stayhub/internal/domain/booking"
)

type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type AddOn struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type PricingBreakdown struct {
	RoomRate   int64   `json:"room_rate"`
	Nights     int     `json:"nights"`
	Subtotal   int64   `json:"subtotal"`
	AddOns     []AddOn `json:"add_ons,omitempty"`
	AddOnTotal int64   `json:"add_on_total"`
	Taxes      int64   `json:"taxes"`
	ServiceFee int64   `json:"service_fee"`
	Total      int64   `json:"total"`
}

type Booking struct {
	ID            string           `json:"id"`
	Reference     string           `json:"reference"`
	RoomID        string           `json:"room_id"`
	GuestID       string           `json:"guest_id"`
	CheckIn       time.Time        `json:"check_in"`
	CheckOut      time.Time        `json:"check_out"`
	Adults        int              `json:"adults"`
	Children      int              `json:"children"`
	Pricing       PricingBreakdown `json:"pricing"`
	PaymentMethod string           `json:"payment_method"`
	PaymentStatus string           `json:"payment_status"`
	Status        string           `json:"status"`
	RefundAmount  int64            `json:"refund_amount,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	out := Booking{
		ID:            string(b.ID),
		Reference:     b.Reference,
		RoomID:        string(b.RoomID),
		GuestID:       b.GuestID,
		CheckIn:       b.Range.CheckIn,
		CheckOut:      b.Range.CheckOut,
		Adults:        b.Guests.Adults,
		Children:      b.Guests.Children,
		Pricing:       mapBreakdown(b),
		PaymentMethod: b.Payment.Method,
		PaymentStatus: b.Payment.Status,
		Status:        string(b.State),
		CreatedAt:     b.CreatedAt,
	}
	if b.Cancellation != nil {
		out.RefundAmount = b.Cancellation.RefundAmount
	}
	return out
}

func mapBreakdown(b *domainbooking.Booking) PricingBreakdown {
	bd := PricingBreakdown{
		RoomRate:   b.Price.RoomRate,
		Nights:     b.Price.Nights,
		Subtotal:   b.Price.Subtotal,
		AddOnTotal: b.Price.AddOnTotal,
		Taxes:      b.Price.Taxes,
		ServiceFee: b.Price.ServiceFee,
		Total:      b.Price.Total,
	}
	for _, a := range b.Price.AddOns {
		bd.AddOns = append(bd.AddOns, AddOn{Name: a.Name, Price: a.Price, Quantity: a.Quantity})
	}
	return bd
}
