package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/merchants/repository"
	"moveops_backend/internal/merchants/service"
)

type ProvisionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	NotifyEmail string `json:"notifyEmail" validate:"omitempty,email"`
}

func (r ProvisionRequest) ToInput() service.ProvisionInput {
	return service.ProvisionInput{
		Name:        r.Name,
		NotifyEmail: r.NotifyEmail,
	}
}

type MerchantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NotifyEmail string    `json:"notifyEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToMerchantResponse(m repository.Merchant) MerchantResponse {
	return MerchantResponse{
		ID:          m.ID,
		Name:        m.Name,
		NotifyEmail: m.NotifyEmail,
		CreatedAt:   m.CreatedAt,
	}
}

type ProvisionResponse struct {
	Merchant      MerchantResponse `json:"merchant"`
	AccessToken   string           `json:"accessToken"`
	WebhookSecret string           `json:"webhookSecret"`
}

func ToProvisionResponse(res service.ProvisionResult) ProvisionResponse {
	return ProvisionResponse{
		Merchant:      ToMerchantResponse(res.Merchant),
		AccessToken:   res.AccessToken,
		WebhookSecret: res.WebhookSecret,
	}
}

type UpdatePricingRuleRequest struct {
	BaseFee     int64              `json:"baseFee" validate:"min=0"`
	PerKm       int64              `json:"perKm" validate:"min=0"`
	PerFloor    int64              `json:"perFloor" validate:"min=0"`
	VolumeCoeff map[string]float64 `json:"volumeCoeff" validate:"required"`
	SurgeRules  json.RawMessage    `json:"surgeRules,omitempty"`
}

func (r UpdatePricingRuleRequest) ToInput() service.UpdatePricingRuleInput {
	return service.UpdatePricingRuleInput{
		BaseFee:     r.BaseFee,
		PerKm:       r.PerKm,
		PerFloor:    r.PerFloor,
		VolumeCoeff: r.VolumeCoeff,
		SurgeRules:  r.SurgeRules,
	}
}

type PricingRuleResponse struct {
	MerchantID  uuid.UUID          `json:"merchantId"`
	BaseFee     int64              `json:"baseFee"`
	PerKm       int64              `json:"perKm"`
	PerFloor    int64              `json:"perFloor"`
	VolumeCoeff map[string]float64 `json:"volumeCoeff"`
	SurgeRules  json.RawMessage    `json:"surgeRules,omitempty"`
}

func ToPricingRuleResponse(r repository.PricingRule) PricingRuleResponse {
	return PricingRuleResponse{
		MerchantID:  r.MerchantID,
		BaseFee:     r.BaseFee,
		PerKm:       r.PerKm,
		PerFloor:    r.PerFloor,
		VolumeCoeff: r.VolumeCoeff,
		SurgeRules:  r.SurgeRules,
	}
}
