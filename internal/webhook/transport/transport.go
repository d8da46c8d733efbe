package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	leadrepo "moveops_backend/internal/leads/repository"
)

// KakaoIntakeRequest is the payload a merchant's KakaoTalk channel bot posts
// for a new moving inquiry.
type KakaoIntakeRequest struct {
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

func (r KakaoIntakeRequest) ToLead(merchantID uuid.UUID) leadrepo.Lead {
	return leadrepo.Lead{
		MerchantID:  merchantID,
		Channel:     leadrepo.ChannelKakao,
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
