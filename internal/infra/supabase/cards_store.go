package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kittipos/namecard-bff-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// cardSelect embeds the linked templates row so a single round trip yields
// everything vCard composition needs.
const cardSelect = "select=*,templates(*)"

// GetCard fetches a card by id with its template embedded.
func (c *Client) GetCard(ctx context.Context, cardID string) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "supabase.GetCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	path := fmt.Sprintf("business_cards?id=eq.%s&%s&limit=1", url.QueryEscape(cardID), cardSelect)

	var card *domain.BusinessCard
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		var rows []domain.BusinessCard
		if len(body) == 0 {
			return &domain.ErrNotFound{Resource: "card", ID: cardID}
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "card", ID: cardID}
		}
		card = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetCardBySlug fetches a card by its public share slug.
func (c *Client) GetCardBySlug(ctx context.Context, slug string) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "supabase.GetCardBySlug",
		trace.WithAttributes(attribute.String("card.slug", slug)))
	defer span.End()

	path := fmt.Sprintf("business_cards?slug=eq.%s&%s&limit=1", url.QueryEscape(slug), cardSelect)

	var card *domain.BusinessCard
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		var rows []domain.BusinessCard
		if len(body) == 0 {
			return &domain.ErrNotFound{Resource: "card", ID: slug}
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "card", ID: slug}
		}
		card = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards returns all cards owned by a user, newest first.
func (c *Client) ListCards(ctx context.Context, userID string) ([]domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "supabase.ListCards",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	path := fmt.Sprintf("business_cards?user_id=eq.%s&%s&order=created_at.desc", url.QueryEscape(userID), cardSelect)

	cards := []domain.BusinessCard{}
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, &cards)
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard inserts a new card and returns the stored row.
func (c *Client) CreateCard(ctx context.Context, card *domain.BusinessCard) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "supabase.CreateCard")
	defer span.End()

	body, err := c.doPost(ctx, "business_cards", card)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.BusinessCard
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no rows")}
	}

	c.logger.Info("card created", zap.String("card_id", rows[0].ID))
	return &rows[0], nil
}

// UpdateCard patches a card row and returns the updated state. An empty
// result means the id matched nothing.
func (c *Client) UpdateCard(ctx context.Context, cardID string, updates map[string]any) (*domain.BusinessCard, error) {
	ctx, span := tracer.Start(ctx, "supabase.UpdateCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	path := fmt.Sprintf("business_cards?id=eq.%s", url.QueryEscape(cardID))
	body, err := c.doPatch(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.BusinessCard
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
	}
	return &rows[0], nil
}

// DeleteCard removes a card row.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	ctx, span := tracer.Start(ctx, "supabase.DeleteCard",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	path := fmt.Sprintf("business_cards?id=eq.%s", url.QueryEscape(cardID))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
