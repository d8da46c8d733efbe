// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"moveops_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a customer inquiry is recorded.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	MerchantID uuid.UUID `json:"merchantId"`
	Channel    string    `json:"channel"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// =============================================================================
// Bookings Domain Events
// =============================================================================

// QuoteGenerated is published when the pricing engine produces a quote and
// the lead's booking moves to quoted.
type QuoteGenerated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	BookingID  uuid.UUID `json:"bookingId"`
	MerchantID uuid.UUID `json:"merchantId"`
	PriceMin   int64     `json:"priceMin"`
	PriceMax   int64     `json:"priceMax"`
}

func (e QuoteGenerated) EventName() string { return "bookings.quote.generated" }

// BookingConfirmed is published when a quoted booking is confirmed.
type BookingConfirmed struct {
	BaseEvent
	BookingID  uuid.UUID  `json:"bookingId"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	MerchantID uuid.UUID  `json:"merchantId"`
	SlotStart  *time.Time `json:"slotStart,omitempty"`
	SlotEnd    *time.Time `json:"slotEnd,omitempty"`
}

func (e BookingConfirmed) EventName() string { return "bookings.booking.confirmed" }

// BookingCancelled is published when a booking is cancelled.
type BookingCancelled struct {
	BaseEvent
	BookingID  uuid.UUID  `json:"bookingId"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	MerchantID uuid.UUID  `json:"merchantId"`
}

func (e BookingCancelled) EventName() string { return "bookings.booking.cancelled" }

// =============================================================================
// Payments Domain Events
// =============================================================================

// PaymentCompleted is published when the payment gateway confirms a payment.
type PaymentCompleted struct {
	BaseEvent
	PaymentID  uuid.UUID `json:"paymentId"`
	BookingID  uuid.UUID `json:"bookingId"`
	MerchantID uuid.UUID `json:"merchantId"`
	Amount     int64     `json:"amount"`
}

func (e PaymentCompleted) EventName() string { return "payments.payment.completed" }

// PaymentFailed is published when the payment gateway reports a failure.
type PaymentFailed struct {
	BaseEvent
	PaymentID  uuid.UUID `json:"paymentId"`
	BookingID  uuid.UUID `json:"bookingId"`
	MerchantID uuid.UUID `json:"merchantId"`
	Amount     int64     `json:"amount"`
}

func (e PaymentFailed) EventName() string { return "payments.payment.failed" }
