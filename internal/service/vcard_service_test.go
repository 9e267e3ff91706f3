package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/infra/observability"
	"github.com/kittipos/namecard-bff-go/internal/infra/resilience"
	"github.com/kittipos/namecard-bff-go/internal/service"

	"go.uber.org/zap"
)

func testVCardService(store *mockCardStore, tracker *mockViewTracker) (*service.VCardService, *observability.Metrics) {
	metrics := observability.NewMetrics()
	svc := service.NewVCardService(store, tracker, metrics, zap.NewNop(), time.Second, resilience.NewBulkhead(4))
	return svc, metrics
}

func waitForInsert(t *testing.T, tracker *mockViewTracker) {
	t.Helper()
	select {
	case <-tracker.inserted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tracking insert")
	}
}

func TestGenerateVCard_Success(t *testing.T) {
	store := newMockCardStore(&domain.BusinessCard{
		ID:    "card-1",
		Name:  "Jane Doe",
		Phone: "0812345678",
	})
	tracker := newMockViewTracker()
	svc, metrics := testVCardService(store, tracker)

	doc, filename, err := svc.GenerateVCard(context.Background(), "card-1", "203.0.113.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(doc, "BEGIN:VCARD\r\n") {
		t.Errorf("document does not start with BEGIN:VCARD, got %q", doc[:min(len(doc), 20)])
	}
	if !strings.Contains(doc, "FN:Jane Doe\r\n") {
		t.Errorf("missing FN line in:\n%s", doc)
	}
	if filename != "Jane_Doe.vcf" {
		t.Errorf("expected filename 'Jane_Doe.vcf', got '%s'", filename)
	}

	waitForInsert(t, tracker)
	views := tracker.recorded()
	if len(views) != 1 {
		t.Fatalf("expected 1 tracked view, got %d", len(views))
	}
	if views[0].CardID != "card-1" {
		t.Errorf("tracked wrong card: %s", views[0].CardID)
	}
	if views[0].DeviceInfo != domain.DeviceInfoVCard {
		t.Errorf("expected device info %q, got %q", domain.DeviceInfoVCard, views[0].DeviceInfo)
	}
	if views[0].ViewerIP != "203.0.113.9" {
		t.Errorf("expected viewer ip recorded, got %q", views[0].ViewerIP)
	}

	if got := metrics.GetUsageSnapshot().VCardsGenerated; got != 1 {
		t.Errorf("expected 1 vcard generated, got %d", got)
	}
}

func TestGenerateVCard_CardNotFound(t *testing.T) {
	store := newMockCardStore()
	tracker := newMockViewTracker()
	svc, _ := testVCardService(store, tracker)

	_, _, err := svc.GenerateVCard(context.Background(), "missing", "")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(tracker.recorded()) != 0 {
		t.Error("no view should be tracked for a missing card")
	}
}

func TestGenerateVCard_MissingNameNotTracked(t *testing.T) {
	store := newMockCardStore(&domain.BusinessCard{ID: "card-1", Name: "   "})
	tracker := newMockViewTracker()
	svc, metrics := testVCardService(store, tracker)

	_, _, err := svc.GenerateVCard(context.Background(), "card-1", "")
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(tracker.recorded()) != 0 {
		t.Error("failed composition must not track a view")
	}
	if got := metrics.GetUsageSnapshot().VCardsGenerated; got != 0 {
		t.Errorf("expected 0 vcards generated, got %d", got)
	}
}

func TestGenerateVCard_TrackingFailureDoesNotFail(t *testing.T) {
	store := newMockCardStore(&domain.BusinessCard{ID: "card-1", Name: "Jane Doe"})
	tracker := newMockViewTracker()
	tracker.insertErr = errors.New("postgrest down")
	svc, metrics := testVCardService(store, tracker)

	doc, _, err := svc.GenerateVCard(context.Background(), "card-1", "")
	if err != nil {
		t.Fatalf("tracking failure must not surface: %v", err)
	}
	if doc == "" {
		t.Fatal("expected a composed document")
	}

	waitForInsert(t, tracker)
	// Give the goroutine a beat to record the drop after the insert returns.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if metrics.GetUsageSnapshot().TrackingDropped == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("expected 1 dropped tracking write, got %d", metrics.GetUsageSnapshot().TrackingDropped)
}
