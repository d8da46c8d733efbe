package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"moveops_backend/internal/merchants/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetProvisionAdminKey() string     { return "admin-key" }
func (testConfig) GetMerchantTokenTTL() time.Duration { return time.Hour }

func newTestService(repo repository.Repository) *Service {
	return NewService(repo, testConfig{}, logger.New("test"))
}

func TestProvisionCreatesDefaultRule(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestService(repo)

	result, err := svc.Provision(context.Background(), ProvisionInput{Name: "Moving Pro Co."})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	rule, err := repo.GetPricingRule(context.Background(), result.Merchant.ID)
	if err != nil {
		t.Fatalf("GetPricingRule: %v", err)
	}
	if rule.BaseFee != 200000 || rule.PerKm != 2000 || rule.PerFloor != 10000 {
		t.Fatalf("default rates = %d/%d/%d, want 200000/2000/10000", rule.BaseFee, rule.PerKm, rule.PerFloor)
	}
	want := map[string]float64{"S": 1, "M": 1.15, "L": 1.35}
	for key, coeff := range want {
		if rule.VolumeCoeff[key] != coeff {
			t.Fatalf("coeff %s = %v, want %v", key, rule.VolumeCoeff[key], coeff)
		}
	}
}

func TestProvisionIssuesMerchantToken(t *testing.T) {
	svc := newTestService(repository.NewMemory())

	result, err := svc.Provision(context.Background(), ProvisionInput{Name: "Moving Pro Co."})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	parsed, err := jwt.Parse(result.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != result.Merchant.ID.String() {
		t.Fatalf("sub = %v, want %s", claims["sub"], result.Merchant.ID)
	}
	if claims["type"] != "access" {
		t.Fatalf("type = %v, want access", claims["type"])
	}
}

func TestWebhookSecretVerification(t *testing.T) {
	svc := newTestService(repository.NewMemory())
	ctx := context.Background()

	result, err := svc.Provision(ctx, ProvisionInput{Name: "Moving Pro Co."})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if result.WebhookSecret == "" {
		t.Fatal("expected a plaintext webhook secret at provisioning")
	}

	if err := svc.VerifyWebhookSecret(ctx, result.Merchant.ID, result.WebhookSecret); err != nil {
		t.Fatalf("correct secret rejected: %v", err)
	}
	if err := svc.VerifyWebhookSecret(ctx, result.Merchant.ID, "wrong"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("wrong secret: got %v, want unauthorized", err)
	}
}

func TestUpdatePricingRuleRejectsNegativeRates(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestService(repo)
	ctx := context.Background()

	result, err := svc.Provision(ctx, ProvisionInput{Name: "Moving Pro Co."})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	_, err = svc.UpdatePricingRule(ctx, result.Merchant.ID, UpdatePricingRuleInput{
		BaseFee: -1, PerKm: 2000, PerFloor: 10000,
		VolumeCoeff: map[string]float64{"M": 1.15},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestUpdatePricingRuleHonorsZeroCoefficient(t *testing.T) {
	repo := repository.NewMemory()
	svc := newTestService(repo)
	ctx := context.Background()

	result, err := svc.Provision(ctx, ProvisionInput{Name: "Moving Pro Co."})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	// A configured zero is a legal, if odd, coefficient.
	updated, err := svc.UpdatePricingRule(ctx, result.Merchant.ID, UpdatePricingRuleInput{
		BaseFee: 100000, PerKm: 1500, PerFloor: 5000,
		VolumeCoeff: map[string]float64{"S": 0, "M": 1.15},
	})
	if err != nil {
		t.Fatalf("UpdatePricingRule: %v", err)
	}
	if updated.VolumeCoeff["S"] != 0 {
		t.Fatalf("coeff S = %v, want 0", updated.VolumeCoeff["S"])
	}
}
