package service

import (
	"context"
	"time"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/infra/observability"
	"github.com/kittipos/namecard-bff-go/internal/infra/resilience"
	"github.com/kittipos/namecard-bff-go/internal/port"
	"github.com/kittipos/namecard-bff-go/internal/vcard"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// VCardService composes downloadable vCard documents for cards.
type VCardService struct {
	store   port.CardStore
	tracker port.ViewTracker
	metrics *observability.Metrics
	logger  *zap.Logger

	trackingTimeout time.Duration
	bulkhead        *resilience.Bulkhead
}

// NewVCardService creates a VCardService.
func NewVCardService(
	store port.CardStore,
	tracker port.ViewTracker,
	metrics *observability.Metrics,
	logger *zap.Logger,
	trackingTimeout time.Duration,
	bulkhead *resilience.Bulkhead,
) *VCardService {
	return &VCardService{
		store:           store,
		tracker:         tracker,
		metrics:         metrics,
		logger:          logger,
		trackingTimeout: trackingTimeout,
		bulkhead:        bulkhead,
	}
}

// GenerateVCard fetches the card with its template, composes the vCard
// document and returns it with the download filename. A best-effort view
// record is written after composition succeeds, off the request path.
func (s *VCardService) GenerateVCard(ctx context.Context, cardID, viewerIP string) (doc, filename string, err error) {
	ctx, span := tracer.Start(ctx, "VCardService.GenerateVCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("generate_vcard", time.Since(start)) }()

	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return "", "", err
	}

	doc, err = vcard.Compose(card)
	if err != nil {
		s.logger.Warn("vcard composition failed",
			zap.String("card_id", cardID),
			zap.Error(err),
		)
		return "", "", err
	}

	s.metrics.IncrVCardGenerated()
	s.trackDownload(card.ID, viewerIP)

	return doc, vcard.Filename(card.Name), nil
}

// trackDownload records the vCard generation without blocking the caller.
func (s *VCardService) trackDownload(cardID, viewerIP string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.trackingTimeout)
		defer cancel()

		if err := s.bulkhead.Acquire(ctx); err != nil {
			s.metrics.IncrTrackingDropped()
			s.logger.Warn("view tracking dropped, bulkhead saturated",
				zap.String("card_id", cardID),
				zap.String("source", "vcard"),
			)
			return
		}
		defer s.bulkhead.Release()

		view := &domain.CardView{
			CardID:     cardID,
			ViewerIP:   viewerIP,
			DeviceInfo: domain.DeviceInfoVCard,
			ViewedAt:   time.Now().UTC(),
		}
		if err := s.tracker.InsertCardView(ctx, view); err != nil {
			s.metrics.IncrTrackingDropped()
			s.logger.Warn("view tracking dropped",
				zap.String("card_id", cardID),
				zap.String("source", "vcard"),
				zap.Error(err),
			)
			return
		}
		s.metrics.IncrCardView("vcard")
	}()
}
