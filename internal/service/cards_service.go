// Package service contains the business logic between HTTP handlers and the
// PostgREST stores.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/infra/observability"
	"github.com/kittipos/namecard-bff-go/internal/infra/resilience"
	"github.com/kittipos/namecard-bff-go/internal/port"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service")

// recentViewsLimit bounds the recent-views list on the stats endpoint.
const recentViewsLimit = 20

// CardsService implements card CRUD, public slug resolution and per-card
// view statistics.
type CardsService struct {
	store   port.CardStore
	tracker port.ViewTracker
	cache   port.Cache[*domain.BusinessCard]
	metrics *observability.Metrics
	logger  *zap.Logger

	trackingTimeout time.Duration

	// bulkhead caps concurrent fire-and-forget tracking writes so a slow
	// backend cannot pile up goroutines.
	bulkhead *resilience.Bulkhead
}

// NewCardsService creates a CardsService.
func NewCardsService(
	store port.CardStore,
	tracker port.ViewTracker,
	cache port.Cache[*domain.BusinessCard],
	metrics *observability.Metrics,
	logger *zap.Logger,
	trackingTimeout time.Duration,
	bulkhead *resilience.Bulkhead,
) *CardsService {
	return &CardsService{
		store:           store,
		tracker:         tracker,
		cache:           cache,
		metrics:         metrics,
		logger:          logger,
		trackingTimeout: trackingTimeout,
		bulkhead:        bulkhead,
	}
}

// GetCard returns a card by id, serving from cache when possible.
func (s *CardsService) GetCard(ctx context.Context, cardID string) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "CardsService.GetCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("get_card", time.Since(start)) }()

	cacheKey := "id:" + cardID
	if card, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("card")
		return card, nil
	}
	s.metrics.IncrCacheMiss("card")

	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, card)
	return card, nil
}

// GetPublicCard resolves a card by its public share slug and records a page
// view. The tracking write is fire-and-forget: it runs on its own context
// and can never affect the response.
func (s *CardsService) GetPublicCard(ctx context.Context, slugValue, viewerIP string) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "CardsService.GetPublicCard",
		trace.WithAttributes(attribute.String("card.slug", slugValue)))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("get_public_card", time.Since(start)) }()

	cacheKey := "slug:" + slugValue
	card, ok := s.cache.Get(cacheKey)
	if ok {
		s.metrics.IncrCacheHit("card")
	} else {
		s.metrics.IncrCacheMiss("card")
		var err error
		card, err = s.store.GetCardBySlug(ctx, slugValue)
		if err != nil {
			return nil, err
		}
		s.cache.Set(cacheKey, card)
	}

	s.trackView(card.ID, viewerIP, domain.DeviceInfoWeb, "web")
	return card, nil
}

// ListCards returns every card owned by a user.
func (s *CardsService) ListCards(ctx context.Context, userID string) ([]domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "CardsService.ListCards",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return nil, &domain.ErrValidation{Field: "user_id", Message: "user_id is required"}
	}
	return s.store.ListCards(ctx, userID)
}

// CreateCard validates the request, assigns an id and a public slug, and
// inserts the card.
func (s *CardsService) CreateCard(ctx context.Context, req *domain.CreateCardRequest) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "CardsService.CreateCard")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if req.UserID == "" {
		return nil, &domain.ErrValidation{Field: "user_id", Message: "user_id is required"}
	}

	id := uuid.NewString()
	card := &domain.BusinessCard{
		ID:     id,
		UserID: req.UserID,
		Name:   req.Name,
		// Slug carries a short id suffix so two cards named alike stay
		// distinct without a read-before-write.
		Slug:        slug.Make(req.Name) + "-" + id[:8],
		JobTitle:    req.JobTitle,
		Company:     req.Company,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		AvatarURL:   req.AvatarURL,
		SocialLinks: req.SocialLinks,
		FieldValues: req.FieldValues,
		TemplateID:  req.TemplateID,
	}

	created, err := s.store.CreateCard(ctx, card)
	if err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, err
	}

	s.logger.Info("card created",
		zap.String("card_id", created.ID),
		zap.String("slug", created.Slug),
	)
	return created, nil
}

// UpdateCard applies a partial update and invalidates cached copies.
func (s *CardsService) UpdateCard(ctx context.Context, cardID string, req *domain.UpdateCardRequest) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "CardsService.UpdateCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
		updates["name"] = *req.Name
	}
	if req.JobTitle != nil {
		updates["job_title"] = *req.JobTitle
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.SocialLinks != nil {
		updates["social_links"] = *req.SocialLinks
	}
	if req.FieldValues != nil {
		updates["field_values"] = *req.FieldValues
	}
	if req.TemplateID != nil {
		updates["template_id"] = *req.TemplateID
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	updated, err := s.store.UpdateCard(ctx, cardID, updates)
	if err != nil {
		return nil, err
	}

	s.invalidate(updated)
	return updated, nil
}

// DeleteCard removes a card and its cached copies.
func (s *CardsService) DeleteCard(ctx context.Context, cardID string) error {
	ctx, span := tracer.Start(ctx, "CardsService.DeleteCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	// Fetch first so the slug cache entry can be dropped too. A card that is
	// already gone is a successful delete.
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	if err := s.store.DeleteCard(ctx, cardID); err != nil {
		return err
	}

	s.invalidate(card)
	return nil
}

// GetCardStats returns the total view count and most recent views, fetched
// concurrently.
func (s *CardsService) GetCardStats(ctx context.Context, cardID string) (*domain.CardStats, error) {
	ctx, span := tracer.Start(ctx, "CardsService.GetCardStats",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("get_card_stats", time.Since(start)) }()

	// Existence check keeps the 404 contract for unknown cards.
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	stats := &domain.CardStats{CardID: cardID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.tracker.CountCardViews(gctx, cardID)
		if err != nil {
			return err
		}
		stats.TotalViews = total
		return nil
	})
	g.Go(func() error {
		recent, err := s.tracker.ListRecentViews(gctx, cardID, recentViewsLimit)
		if err != nil {
			return err
		}
		stats.RecentViews = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, err
	}

	return stats, nil
}

// invalidate drops both cache keys for a card.
func (s *CardsService) invalidate(card *domain.BusinessCard) {
	s.cache.Delete("id:" + card.ID)
	if card.Slug != "" {
		s.cache.Delete("slug:" + card.Slug)
	}
}

// trackView records a view without blocking the caller. The goroutine gets
// its own deadline so a slow backend cannot leak it.
func (s *CardsService) trackView(cardID, viewerIP, deviceInfo, source string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.trackingTimeout)
		defer cancel()

		if err := s.bulkhead.Acquire(ctx); err != nil {
			s.metrics.IncrTrackingDropped()
			s.logger.Warn("view tracking dropped, bulkhead saturated",
				zap.String("card_id", cardID),
				zap.String("source", source),
			)
			return
		}
		defer s.bulkhead.Release()

		view := &domain.CardView{
			CardID:     cardID,
			ViewerIP:   viewerIP,
			DeviceInfo: deviceInfo,
			ViewedAt:   time.Now().UTC(),
		}
		if err := s.tracker.InsertCardView(ctx, view); err != nil {
			s.metrics.IncrTrackingDropped()
			s.logger.Warn("view tracking dropped",
				zap.String("card_id", cardID),
				zap.String("source", source),
				zap.Error(err),
			)
			return
		}
		s.metrics.IncrCardView(source)
	}()
}
