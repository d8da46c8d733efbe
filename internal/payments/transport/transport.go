package transport

import (
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/payments/repository"
	"moveops_backend/internal/payments/service"
)

type CreatePaymentRequest struct {
	BookingID   uuid.UUID `json:"bookingId" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	TossOrderID string    `json:"tossOrderId" validate:"omitempty,max=200"`
}

func (r CreatePaymentRequest) ToInput() service.CreateInput {
	return service.CreateInput{
		BookingID:   r.BookingID,
		Amount:      r.Amount,
		TossOrderID: r.TossOrderID,
	}
}

// CallbackRequest mirrors the Toss payment gateway's callback payload.
type CallbackRequest struct {
	OrderID    string `json:"orderId" validate:"required"`
	PaymentKey string `json:"paymentKey"`
	Status     string `json:"status" validate:"required"`
}

func (r CallbackRequest) ToInput() service.CallbackInput {
	return service.CallbackInput{
		OrderID:    r.OrderID,
		PaymentKey: r.PaymentKey,
		Status:     r.Status,
	}
}

type PaymentResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	Amount         int64     `json:"amount"`
	Status         string    `json:"status"`
	TossPaymentKey *string   `json:"tossPaymentKey,omitempty"`
	TossOrderID    *string   `json:"tossOrderId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToPaymentResponse(p repository.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		Amount:         p.Amount,
		Status:         p.Status,
		TossPaymentKey: p.TossPaymentKey,
		TossOrderID:    p.TossOrderID,
		CreatedAt:      p.CreatedAt,
	}
}

func ToPaymentResponses(payments []repository.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToPaymentResponse(p))
	}
	return out
}
