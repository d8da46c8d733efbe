package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/activity/repository"
	"moveops_backend/platform/logger"
)

func TestListRecentOrdersNewestFirst(t *testing.T) {
	repo := repository.NewMemory()
	svc := NewService(repo, logger.New("test"))
	merchantID := uuid.New()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// Insert out of chronological order on purpose.
	for _, offset := range []int{2, 0, 1} {
		repo.Append(repository.Activity{
			MerchantID:  merchantID,
			Type:        repository.TypeLeadCreated,
			Description: fmt.Sprintf("entry %d", offset),
			CreatedAt:   base.Add(time.Duration(offset) * time.Minute),
		})
	}

	items, err := svc.ListRecent(context.Background(), merchantID, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d entries, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("entries not in descending order: %v before %v",
				items[i-1].CreatedAt, items[i].CreatedAt)
		}
	}
	if items[0].Description != "entry 2" {
		t.Fatalf("newest entry = %q, want %q", items[0].Description, "entry 2")
	}
}

func TestListRecentDefaultLimit(t *testing.T) {
	repo := repository.NewMemory()
	svc := NewService(repo, logger.New("test"))
	merchantID := uuid.New()

	for i := 0; i < 15; i++ {
		repo.Append(repository.Activity{
			MerchantID:  merchantID,
			Type:        repository.TypeQuoteGenerated,
			Description: fmt.Sprintf("quote %d", i),
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	items, err := svc.ListRecent(context.Background(), merchantID, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(items) != repository.DefaultListLimit {
		t.Fatalf("got %d entries, want default limit %d", len(items), repository.DefaultListLimit)
	}
}

func TestListRecentScopedToMerchant(t *testing.T) {
	repo := repository.NewMemory()
	svc := NewService(repo, logger.New("test"))
	mine := uuid.New()
	other := uuid.New()

	repo.Append(repository.Activity{MerchantID: mine, Type: repository.TypeLeadCreated, Description: "mine"})
	repo.Append(repository.Activity{MerchantID: other, Type: repository.TypeLeadCreated, Description: "theirs"})

	items, err := svc.ListRecent(context.Background(), mine, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(items) != 1 || items[0].Description != "mine" {
		t.Fatalf("expected only own entries, got %+v", items)
	}
}

func TestRecordValidatesInput(t *testing.T) {
	svc := NewService(repository.NewMemory(), logger.New("test"))

	if _, err := svc.Record(context.Background(), repository.Activity{Type: repository.TypeLeadCreated}); err == nil {
		t.Fatal("expected error for missing merchant id")
	}
	if _, err := svc.Record(context.Background(), repository.Activity{MerchantID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing activity type")
	}
}
