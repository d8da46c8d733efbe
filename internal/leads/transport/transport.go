package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/leads/repository"
)

type CreateLeadRequest struct {
	Channel     string          `json:"channel" validate:"required,oneof=kakao website phone referral"`
	Name        *string         `json:"name" validate:"omitempty,max=200"`
	Phone       *string         `json:"phone" validate:"omitempty,max=32"`
	Origin      json.RawMessage `json:"origin,omitempty"`
	Dest        json.RawMessage `json:"dest,omitempty"`
	FloorFrom   *int            `json:"floorFrom" validate:"omitempty,min=0,max=200"`
	FloorTo     *int            `json:"floorTo" validate:"omitempty,min=0,max=200"`
	ElevFrom    *bool           `json:"elevFrom"`
	ElevTo      *bool           `json:"elevTo"`
	Volume      *string         `json:"volume" validate:"omitempty,oneof=S M L"`
	PreferredTS *time.Time      `json:"preferredTs"`
}

func (r CreateLeadRequest) ToLead(merchantID uuid.UUID) repository.Lead {
	return repository.Lead{
		MerchantID:  merchantID,
		Channel:     r.Channel,
		Name:        r.Name,
		Phone:       r.Phone,
		Origin:      r.Origin,
		Dest:        r.Dest,
		FloorFrom:   r.FloorFrom,
		FloorTo:     r.FloorTo,
		ElevFrom:    r.ElevFrom,
		ElevTo:      r.ElevTo,
		Volume:      r.Volume,
		PreferredTS: r.PreferredTS,
	}
}

type UpdateLeadRequest struct {
	Name        *string         `json:"name" validate:"omitempty,max=200"`
	Phone       *string         `json:"phone" validate:"omitempty,max=32"`
	Origin      json.RawMessage `json:"origin,omitempty"`
	Dest        json.RawMessage `json:"dest,omitempty"`
	FloorFrom   *int            `json:"floorFrom" validate:"omitempty,min=0,max=200"`
	FloorTo     *int            `json:"floorTo" validate:"omitempty,min=0,max=200"`
	ElevFrom    *bool           `json:"elevFrom"`
	ElevTo      *bool           `json:"elevTo"`
	Volume      *string         `json:"volume" validate:"omitempty,oneof=S M L"`
	PreferredTS *time.Time      `json:"preferredTs"`
}

func (r UpdateLeadRequest) ToPatch() repository.Patch {
	return repository.Patch{
		Name:        r.Name,
		Phone:       r.Phone,
		Origin:      r.Origin,
		Dest:        r.Dest,
		FloorFrom:   r.FloorFrom,
		FloorTo:     r.FloorTo,
		ElevFrom:    r.ElevFrom,
		ElevTo:      r.ElevTo,
		Volume:      r.Volume,
		PreferredTS: r.PreferredTS,
	}
}

type LeadResponse struct {
	ID          uuid.UUID       `json:"id"`
	Channel     string          `json:"channel"`
	Name        *string         `json:"name,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Origin      json.RawMessage `json:"origin,omitempty"`
	Dest        json.RawMessage `json:"dest,omitempty"`
	FloorFrom   *int            `json:"floorFrom,omitempty"`
	FloorTo     *int            `json:"floorTo,omitempty"`
	ElevFrom    *bool           `json:"elevFrom,omitempty"`
	ElevTo      *bool           `json:"elevTo,omitempty"`
	Volume      *string         `json:"volume,omitempty"`
	PreferredTS *time.Time      `json:"preferredTs,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:          lead.ID,
		Channel:     lead.Channel,
		Name:        lead.Name,
		Phone:       lead.Phone,
		Origin:      lead.Origin,
		Dest:        lead.Dest,
		FloorFrom:   lead.FloorFrom,
		FloorTo:     lead.FloorTo,
		ElevFrom:    lead.ElevFrom,
		ElevTo:      lead.ElevTo,
		Volume:      lead.Volume,
		PreferredTS: lead.PreferredTS,
		CreatedAt:   lead.CreatedAt,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}
