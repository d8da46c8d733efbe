package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/internal/events"
	leadrepo "moveops_backend/internal/leads/repository"
	leadsvc "moveops_backend/internal/leads/service"
	merchantrepo "moveops_backend/internal/merchants/repository"
	merchantsvc "moveops_backend/internal/merchants/service"
	"moveops_backend/platform/logger"
	"moveops_backend/platform/validator"
)

type dropBus struct{}

func (dropBus) Publish(context.Context, events.Event)           {}
func (dropBus) PublishSync(context.Context, events.Event) error { return nil }
func (dropBus) Subscribe(string, events.Handler)                {}

type provisionConfig struct{}

func (provisionConfig) GetJWTAccessSecret() string         { return "test-secret" }
func (provisionConfig) GetProvisionAdminKey() string       { return "admin-key" }
func (provisionConfig) GetMerchantTokenTTL() time.Duration { return time.Hour }

func newTestRouter(t *testing.T) (*gin.Engine, *leadrepo.Memory, uuid.UUID, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("test")
	validate := validator.New()
	leads := leadrepo.NewMemory(activityrepo.NewMemory())
	merchants := merchantsvc.NewService(merchantrepo.NewMemory(), provisionConfig{}, log)

	result, err := merchants.Provision(context.Background(), merchantsvc.ProvisionInput{Name: "Moving Pro Co."})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	h := NewHandler(merchants, leadsvc.NewService(leads, dropBus{}, log), log, validate)

	router := gin.New()
	router.POST("/api/v1/webhooks/kakao/:merchantId", h.KakaoIntake)
	return router, leads, result.Merchant.ID, result.WebhookSecret
}

func postIntake(router *gin.Engine, merchantID uuid.UUID, secret string, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/kakao/"+merchantID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestKakaoIntakeCreatesLead(t *testing.T) {
	router, leads, merchantID, secret := newTestRouter(t)

	w := postIntake(router, merchantID, secret, map[string]any{
		"name":   "Kim Minsu",
		"phone":  "010-1234-5678",
		"volume": "M",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool      `json:"success"`
		LeadID  uuid.UUID `json:"leadId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected an acknowledging response")
	}

	lead, err := leads.GetByID(context.Background(), merchantID, resp.LeadID)
	if err != nil {
		t.Fatalf("lead not stored: %v", err)
	}
	if lead.Channel != leadrepo.ChannelKakao {
		t.Fatalf("channel = %s, want kakao", lead.Channel)
	}
	if lead.Phone == nil || *lead.Phone != "+821012345678" {
		t.Fatalf("phone = %v, want normalized +821012345678", lead.Phone)
	}
}

func TestKakaoIntakeRejectsWrongSecret(t *testing.T) {
	router, _, merchantID, _ := newTestRouter(t)

	w := postIntake(router, merchantID, "wrong", map[string]any{"name": "Kim Minsu"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestKakaoIntakeRejectsMissingSecret(t *testing.T) {
	router, _, merchantID, _ := newTestRouter(t)

	w := postIntake(router, merchantID, "", map[string]any{"name": "Kim Minsu"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestKakaoIntakeUnknownMerchant(t *testing.T) {
	router, _, _, secret := newTestRouter(t)

	w := postIntake(router, uuid.New(), secret, map[string]any{"name": "Kim Minsu"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
