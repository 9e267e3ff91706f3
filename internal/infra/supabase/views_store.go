package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kittipos/namecard-bff-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InsertCardView records one view of a card. Callers on the hot path invoke
// this from a detached goroutine; failures here must never fail a request.
func (c *Client) InsertCardView(ctx context.Context, view *domain.CardView) error {
	ctx, span := tracer.Start(ctx, "supabase.InsertCardView",
		trace.WithAttributes(
			attribute.String("card.id", view.CardID),
			attribute.String("view.device_info", view.DeviceInfo),
		))
	defer span.End()

	if _, err := c.doPost(ctx, "card_views", view); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}

// CountCardViews returns the total number of recorded views for a card,
// using PostgREST's exact-count header so no rows travel over the wire.
func (c *Client) CountCardViews(ctx context.Context, cardID string) (int, error) {
	ctx, span := tracer.Start(ctx, "supabase.CountCardViews",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	u := fmt.Sprintf("%s/rest/v1/card_views?card_id=eq.%s&select=id&limit=1", c.baseURL, url.QueryEscape(cardID))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return 0, err
	}
	c.setAuthHeaders(req)
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("count returned status %d", resp.StatusCode)}
	}

	// Content-Range looks like "0-0/42"; the count follows the slash.
	cr := resp.Header.Get("Content-Range")
	_, total, ok := strings.Cut(cr, "/")
	if !ok {
		return 0, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("missing Content-Range header")}
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("bad Content-Range %q", cr)}
	}
	return n, nil
}

// ListRecentViews returns the most recent views of a card, newest first.
func (c *Client) ListRecentViews(ctx context.Context, cardID string, limit int) ([]domain.CardView, error) {
	ctx, span := tracer.Start(ctx, "supabase.ListRecentViews",
		trace.WithAttributes(attribute.String("card.id", cardID)))
	defer span.End()

	path := fmt.Sprintf("card_views?card_id=eq.%s&order=viewed_at.desc&limit=%d", url.QueryEscape(cardID), limit)

	views := []domain.CardView{}
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, &views)
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
