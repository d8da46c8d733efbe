// Package service implements merchant provisioning and pricing rule
// management.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"moveops_backend/internal/merchants/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/config"
	"moveops_backend/platform/logger"
)

type Service struct {
	repo repository.Repository
	cfg  config.ProvisionConfig
	log  *logger.Logger
}

func NewService(repo repository.Repository, cfg config.ProvisionConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// ProvisionInput carries validated fields for creating a merchant.
type ProvisionInput struct {
	Name        string
	NotifyEmail string
}

// ProvisionResult is returned once at provisioning. WebhookSecret is the only
// time the plaintext secret leaves the system; we store just its bcrypt hash.
type ProvisionResult struct {
	Merchant      repository.Merchant
	AccessToken   string
	WebhookSecret string
}

// Provision creates a merchant with the default pricing rule and issues its
// API access token.
func (s *Service) Provision(ctx context.Context, input ProvisionInput) (ProvisionResult, error) {
	secret, err := generateWebhookSecret()
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("generate webhook secret: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("hash webhook secret: %w", err)
	}

	rule, err := DefaultPricingRule()
	if err != nil {
		return ProvisionResult{}, err
	}

	merchant, err := s.repo.Provision(ctx, repository.Merchant{
		Name:              input.Name,
		WebhookSecretHash: string(hash),
		NotifyEmail:       input.NotifyEmail,
	}, rule)
	if err != nil {
		return ProvisionResult{}, err
	}

	token, err := s.issueAccessToken(merchant.ID)
	if err != nil {
		return ProvisionResult{}, err
	}

	s.log.Info("merchant provisioned", "merchant_id", merchant.ID, "name", merchant.Name)

	return ProvisionResult{
		Merchant:      merchant,
		AccessToken:   token,
		WebhookSecret: secret,
	}, nil
}

// GetMerchant loads a merchant by ID.
func (s *Service) GetMerchant(ctx context.Context, id uuid.UUID) (repository.Merchant, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPricingRule returns a merchant's pricing rule.
func (s *Service) GetPricingRule(ctx context.Context, merchantID uuid.UUID) (repository.PricingRule, error) {
	return s.repo.GetPricingRule(ctx, merchantID)
}

// UpdatePricingRuleInput carries validated fields for a rule update. All
// amounts are KRW integers; coefficients of zero are honored as configured.
type UpdatePricingRuleInput struct {
	BaseFee     int64
	PerKm       int64
	PerFloor    int64
	VolumeCoeff map[string]float64
	SurgeRules  []byte
}

// UpdatePricingRule replaces a merchant's rule. The write is an upsert so a
// merchant whose rule row is missing gets one rather than an error.
func (s *Service) UpdatePricingRule(ctx context.Context, merchantID uuid.UUID, input UpdatePricingRuleInput) (repository.PricingRule, error) {
	if input.BaseFee < 0 || input.PerKm < 0 || input.PerFloor < 0 {
		return repository.PricingRule{}, apperr.Validation("rates must not be negative")
	}
	for key, coeff := range input.VolumeCoeff {
		if coeff < 0 {
			return repository.PricingRule{}, apperr.Validation(fmt.Sprintf("volume coefficient %q must not be negative", key))
		}
	}

	return s.repo.UpsertPricingRule(ctx, repository.PricingRule{
		MerchantID:  merchantID,
		BaseFee:     input.BaseFee,
		PerKm:       input.PerKm,
		PerFloor:    input.PerFloor,
		VolumeCoeff: input.VolumeCoeff,
		SurgeRules:  input.SurgeRules,
	})
}

// VerifyWebhookSecret checks a presented plaintext secret against the stored
// hash. Returns Unauthorized on mismatch so callers cannot tell a wrong
// secret from an unknown merchant.
func (s *Service) VerifyWebhookSecret(ctx context.Context, merchantID uuid.UUID, secret string) error {
	merchant, err := s.repo.GetByID(ctx, merchantID)
	if err != nil {
		return apperr.Unauthorized("invalid webhook credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(merchant.WebhookSecretHash), []byte(secret)) != nil {
		return apperr.Unauthorized("invalid webhook credentials")
	}
	return nil
}

func (s *Service) issueAccessToken(merchantID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  merchantID.String(),
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.GetMerchantTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func generateWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
