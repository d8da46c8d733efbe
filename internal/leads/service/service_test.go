package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/internal/events"
	"moveops_backend/internal/leads/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

// recordingBus captures published events for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, evt events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *recordingBus) PublishSync(ctx context.Context, evt events.Event) error {
	b.Publish(ctx, evt)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.events...)
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesKoreanPhone(t *testing.T) {
	activities := activityrepo.NewMemory()
	repo := repository.NewMemory(activities)
	svc := NewService(repo, &recordingBus{}, logger.New("test"))

	lead, err := svc.Create(context.Background(), repository.Lead{
		MerchantID: uuid.New(),
		Channel:    repository.ChannelWebsite,
		Phone:      strPtr("010-1234-5678"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.Phone == nil || *lead.Phone != "+821012345678" {
		t.Fatalf("phone = %v, want +821012345678", lead.Phone)
	}
}

func TestCreateKeepsUnparseablePhone(t *testing.T) {
	repo := repository.NewMemory(activityrepo.NewMemory())
	svc := NewService(repo, &recordingBus{}, logger.New("test"))

	lead, err := svc.Create(context.Background(), repository.Lead{
		MerchantID: uuid.New(),
		Channel:    repository.ChannelPhone,
		Phone:      strPtr("no-number-here"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.Phone == nil || *lead.Phone != "no-number-here" {
		t.Fatalf("phone = %v, want verbatim input", lead.Phone)
	}
}

func TestCreateStripsMarkupFromName(t *testing.T) {
	repo := repository.NewMemory(activityrepo.NewMemory())
	svc := NewService(repo, &recordingBus{}, logger.New("test"))

	lead, err := svc.Create(context.Background(), repository.Lead{
		MerchantID: uuid.New(),
		Channel:    repository.ChannelKakao,
		Name:       strPtr(`<script>alert(1)</script>Kim Minsu`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.Name == nil || *lead.Name != "alert(1)Kim Minsu" {
		t.Fatalf("name = %v, want markup stripped", lead.Name)
	}
}

func TestUpdateStripsMarkupFromName(t *testing.T) {
	repo := repository.NewMemory(activityrepo.NewMemory())
	svc := NewService(repo, &recordingBus{}, logger.New("test"))
	merchantID := uuid.New()

	lead, err := svc.Create(context.Background(), repository.Lead{
		MerchantID: merchantID,
		Channel:    repository.ChannelWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), merchantID, lead.ID, repository.Patch{
		Name: strPtr("<b>Park</b> Jiyoung"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name == nil || *updated.Name != "Park Jiyoung" {
		t.Fatalf("name = %v, want markup stripped", updated.Name)
	}
}

func TestCreateWritesActivityAndPublishesEvent(t *testing.T) {
	activities := activityrepo.NewMemory()
	repo := repository.NewMemory(activities)
	bus := &recordingBus{}
	svc := NewService(repo, bus, logger.New("test"))
	merchantID := uuid.New()

	lead, err := svc.Create(context.Background(), repository.Lead{
		MerchantID: merchantID,
		Channel:    repository.ChannelKakao,
		Name:       strPtr("Kim Minsu"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	feed := activities.All(merchantID)
	if len(feed) != 1 {
		t.Fatalf("got %d activity entries, want 1", len(feed))
	}
	if feed[0].Type != activityrepo.TypeLeadCreated {
		t.Fatalf("activity type = %s, want %s", feed[0].Type, activityrepo.TypeLeadCreated)
	}
	if feed[0].EntityID == nil || *feed[0].EntityID != lead.ID {
		t.Fatalf("activity entity = %v, want lead %s", feed[0].EntityID, lead.ID)
	}

	published := bus.published()
	if len(published) != 1 {
		t.Fatalf("got %d events, want 1", len(published))
	}
	evt, ok := published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("event type = %T, want LeadCreated", published[0])
	}
	if evt.LeadID != lead.ID || evt.Channel != repository.ChannelKakao {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
}

func TestCreateRequiresChannel(t *testing.T) {
	svc := NewService(repository.NewMemory(activityrepo.NewMemory()), &recordingBus{}, logger.New("test"))

	_, err := svc.Create(context.Background(), repository.Lead{MerchantID: uuid.New()})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestGetScopedToMerchant(t *testing.T) {
	repo := repository.NewMemory(activityrepo.NewMemory())
	svc := NewService(repo, &recordingBus{}, logger.New("test"))
	ctx := context.Background()

	lead, err := svc.Create(ctx, repository.Lead{MerchantID: uuid.New(), Channel: repository.ChannelWebsite})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, uuid.New(), lead.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("cross-merchant get: got %v, want not found", err)
	}
	if _, err := svc.Get(ctx, lead.MerchantID, lead.ID); err != nil {
		t.Fatalf("own get: %v", err)
	}
}
