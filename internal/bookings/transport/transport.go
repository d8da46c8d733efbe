package transport

import (
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/bookings/repository"
	"moveops_backend/internal/bookings/service"
)

type QuoteRequest struct {
	LeadID uuid.UUID `json:"leadId" validate:"required"`
}

type QuoteResponse struct {
	BookingID uuid.UUID `json:"bookingId"`
	LeadID    uuid.UUID `json:"leadId"`
	PriceMin  int64     `json:"priceMin"`
	PriceMax  int64     `json:"priceMax"`
	Status    string    `json:"status"`
}

func ToQuoteResponse(b repository.Booking, q service.Quote) QuoteResponse {
	return QuoteResponse{
		BookingID: b.ID,
		LeadID:    b.LeadID,
		PriceMin:  q.PriceMin,
		PriceMax:  q.PriceMax,
		Status:    string(b.Status),
	}
}

type ConfirmRequest struct {
	SlotStart *time.Time `json:"slotStart"`
	SlotEnd   *time.Time `json:"slotEnd"`
}

func (r ConfirmRequest) ToSlotParams() repository.SlotParams {
	return repository.SlotParams{
		SlotStart: r.SlotStart,
		SlotEnd:   r.SlotEnd,
	}
}

type UpdateBookingRequest struct {
	Status    string     `json:"status" validate:"required,oneof=tentative quoted confirmed cancelled"`
	SlotStart *time.Time `json:"slotStart"`
	SlotEnd   *time.Time `json:"slotEnd"`
}

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	LeadID        uuid.UUID  `json:"leadId"`
	PriceMin      *int64     `json:"priceMin,omitempty"`
	PriceMax      *int64     `json:"priceMax,omitempty"`
	SlotStart     *time.Time `json:"slotStart,omitempty"`
	SlotEnd       *time.Time `json:"slotEnd,omitempty"`
	Status        string     `json:"status"`
	DepositAmount *int64     `json:"depositAmount,omitempty"`
	DepositTxID   *string    `json:"depositTxId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func ToBookingResponse(b repository.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		LeadID:        b.LeadID,
		PriceMin:      b.PriceMin,
		PriceMax:      b.PriceMax,
		SlotStart:     b.SlotStart,
		SlotEnd:       b.SlotEnd,
		Status:        string(b.Status),
		DepositAmount: b.DepositAmount,
		DepositTxID:   b.DepositTxID,
		CreatedAt:     b.CreatedAt,
	}
}

func ToBookingResponses(bookings []repository.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingResponse(b))
	}
	return out
}
