package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	activityrepo "moveops_backend/internal/activity/repository"
	"moveops_backend/internal/bookings/domain"
	"moveops_backend/internal/bookings/repository"
	"moveops_backend/internal/events"
	leadrepo "moveops_backend/internal/leads/repository"
	rulerepo "moveops_backend/internal/merchants/repository"
	"moveops_backend/platform/apperr"
	"moveops_backend/platform/logger"
)

type leadReader struct{ repo *leadrepo.Memory }

func (r leadReader) GetLead(ctx context.Context, merchantID, id uuid.UUID) (leadrepo.Lead, error) {
	return r.repo.GetByID(ctx, merchantID, id)
}

type ruleReader struct{ repo *rulerepo.Memory }

func (r ruleReader) GetPricingRule(ctx context.Context, merchantID uuid.UUID) (rulerepo.PricingRule, error) {
	return r.repo.GetPricingRule(ctx, merchantID)
}

type staticDistance struct{ km float64 }

func (d staticDistance) EstimateKm(context.Context, json.RawMessage, json.RawMessage) (float64, error) {
	return d.km, nil
}

type fakeScheduler struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (f *fakeScheduler) ScheduleReminder(_ context.Context, _ uuid.UUID, bookingID uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, bookingID)
	return nil
}

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

type fixture struct {
	svc        *Service
	activities *activityrepo.Memory
	leads      *leadrepo.Memory
	rules      *rulerepo.Memory
	bookings   *repository.Memory
	bus        *recordingBus
	merchantID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	activities := activityrepo.NewMemory()
	leads := leadrepo.NewMemory(activities)
	rules := rulerepo.NewMemory()
	bookings := repository.NewMemory(activities)
	bus := &recordingBus{}
	merchantID := uuid.New()

	rule := defaultRule()
	rule.MerchantID = merchantID
	if _, err := rules.UpsertPricingRule(context.Background(), rule); err != nil {
		t.Fatalf("seed pricing rule: %v", err)
	}

	svc := NewService(bookings, leadReader{leads}, ruleReader{rules}, staticDistance{km: 10}, bus, logger.New("test"))
	return &fixture{
		svc:        svc,
		activities: activities,
		leads:      leads,
		rules:      rules,
		bookings:   bookings,
		bus:        bus,
		merchantID: merchantID,
	}
}

func (f *fixture) newLead(t *testing.T, lead leadrepo.Lead) leadrepo.Lead {
	t.Helper()
	lead.MerchantID = f.merchantID
	if lead.Channel == "" {
		lead.Channel = leadrepo.ChannelWebsite
	}
	created, err := f.leads.Create(context.Background(), lead)
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	return created
}

func TestGenerateQuoteCreatesQuotedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.newLead(t, leadrepo.Lead{Volume: volPtr("M")})

	booking, quote, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("GenerateQuote: %v", err)
	}
	if booking.Status != domain.StatusQuoted {
		t.Fatalf("status = %s, want quoted", booking.Status)
	}
	if quote.PriceMin != 227700 || quote.PriceMax != 290950 {
		t.Fatalf("quote = %+v, want 227700/290950", quote)
	}
	if booking.PriceMin == nil || *booking.PriceMin != quote.PriceMin {
		t.Fatalf("stored PriceMin = %v, want %d", booking.PriceMin, quote.PriceMin)
	}
	if booking.SlotStart == nil || booking.SlotEnd == nil {
		t.Fatalf("slot = %v/%v, want provisional slot stamped on first quote", booking.SlotStart, booking.SlotEnd)
	}
	if got := booking.SlotEnd.Sub(*booking.SlotStart); got != repository.ProvisionalSlotDuration {
		t.Fatalf("provisional slot length = %s, want %s", got, repository.ProvisionalSlotDuration)
	}

	published := f.bus.published()
	if len(published) != 1 {
		t.Fatalf("got %d events, want 1", len(published))
	}
	if _, ok := published[0].(events.QuoteGenerated); !ok {
		t.Fatalf("event type = %T, want QuoteGenerated", published[0])
	}
}

func TestGenerateQuoteTwiceUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.newLead(t, leadrepo.Lead{Volume: volPtr("M")})

	first, _, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("first quote: %v", err)
	}

	// The merchant raises rates between the two quotes.
	rule := defaultRule()
	rule.MerchantID = f.merchantID
	rule.BaseFee = 300000
	if _, err := f.rules.UpsertPricingRule(ctx, rule); err != nil {
		t.Fatalf("update rule: %v", err)
	}

	second, quote, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("second quote: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-quote created a new booking %s, want update of %s", second.ID, first.ID)
	}
	// 300000 + 20000 = 320000, * 1.15 = 368000 -> min 331200
	if quote.PriceMin != 331200 {
		t.Fatalf("updated PriceMin = %d, want 331200", quote.PriceMin)
	}

	all, err := f.bookings.ListByMerchant(ctx, f.merchantID, "", 0)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d bookings after re-quote, want 1", len(all))
	}
}

func TestGenerateQuoteConflictsOnConfirmedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.newLead(t, leadrepo.Lead{})

	booking, _, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := f.svc.Confirm(ctx, f.merchantID, booking.ID, repository.SlotParams{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	_, _, err = f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("re-quote of confirmed booking: got %v, want conflict", err)
	}
}

func TestGenerateQuoteConflictsOnCancelledBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.newLead(t, leadrepo.Lead{})

	booking, _, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, f.merchantID, booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, _, err = f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("re-quote of cancelled booking: got %v, want conflict", err)
	}
}

func TestGenerateQuoteUnknownLead(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.GenerateQuote(context.Background(), f.merchantID, uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestGenerateQuoteMissingPricingRule(t *testing.T) {
	activities := activityrepo.NewMemory()
	leads := leadrepo.NewMemory(activities)
	bookings := repository.NewMemory(activities)
	merchantID := uuid.New()
	svc := NewService(bookings, leadReader{leads}, ruleReader{rulerepo.NewMemory()},
		staticDistance{km: 10}, &recordingBus{}, logger.New("test"))

	lead, err := leads.Create(context.Background(), leadrepo.Lead{
		MerchantID: merchantID,
		Channel:    leadrepo.ChannelWebsite,
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}

	_, _, err = svc.GenerateQuote(context.Background(), merchantID, lead.ID)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestConfirmSchedulesReminderAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	scheduler := &fakeScheduler{}
	f.svc.SetReminderScheduler(scheduler)

	lead := f.newLead(t, leadrepo.Lead{})
	booking, _, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	slotStart := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	slotEnd := slotStart.Add(2 * time.Hour)
	confirmed, err := f.svc.Confirm(ctx, f.merchantID, booking.ID, repository.SlotParams{
		SlotStart: &slotStart,
		SlotEnd:   &slotEnd,
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}
	if confirmed.SlotStart == nil || !confirmed.SlotStart.Equal(slotStart) {
		t.Fatalf("slot start = %v, want %v", confirmed.SlotStart, slotStart)
	}

	if len(scheduler.calls) != 1 || scheduler.calls[0] != booking.ID {
		t.Fatalf("reminder calls = %v, want one for %s", scheduler.calls, booking.ID)
	}

	var sawConfirmed bool
	for _, evt := range f.bus.published() {
		if _, ok := evt.(events.BookingConfirmed); ok {
			sawConfirmed = true
		}
	}
	if !sawConfirmed {
		t.Fatal("expected a BookingConfirmed event")
	}
}

func TestCancelTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := f.newLead(t, leadrepo.Lead{})
	booking, _, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, f.merchantID, booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, f.merchantID, booking.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("second cancel: got %v, want conflict", err)
	}
}

// Full intake-to-confirmation walkthrough for a Kakao lead moving a large
// household from a 2nd to a 7th floor, elevators on both ends.
func TestQuoteScenarioKakaoLargeMove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := f.newLead(t, leadrepo.Lead{
		Channel:   leadrepo.ChannelKakao,
		Name:      strPtr("Park Jiyoung"),
		FloorFrom: intPtr(2),
		FloorTo:   intPtr(7),
		ElevFrom:  boolPtr(true),
		ElevTo:    boolPtr(true),
		Volume:    volPtr("L"),
	})

	booking, quote, err := f.svc.GenerateQuote(ctx, f.merchantID, lead.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	// floors 2+7-2 = 7: 200000 + 10*2000 + 7*10000 = 290000, * 1.35 = 391500
	// min = 352350, max = 450225
	if quote.PriceMin != 352350 || quote.PriceMax != 450225 {
		t.Fatalf("quote = %+v, want 352350/450225", quote)
	}

	if _, err := f.svc.Confirm(ctx, f.merchantID, booking.ID, repository.SlotParams{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	feed := f.activities.All(f.merchantID)
	var got []string
	for _, entry := range feed {
		got = append(got, entry.Type)
	}
	want := []string{
		activityrepo.TypeLeadCreated,
		activityrepo.TypeBookingCreated,
		activityrepo.TypeQuoteGenerated,
		activityrepo.TypeBookingConfirmed,
	}
	if len(got) != len(want) {
		t.Fatalf("activity feed = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("activity feed order = %v, want %v", got, want)
		}
	}
}

func strPtr(s string) *string { return &s }
