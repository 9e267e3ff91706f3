package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kittipos/namecard-bff-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ListSettings returns every web_settings row.
func (c *Client) ListSettings(ctx context.Context) ([]domain.WebSetting, error) {
	ctx, span := tracer.Start(ctx, "supabase.ListSettings")
	defer span.End()

	settings := []domain.WebSetting{}
	err := c.getWithResilience(ctx, "supabase", "web_settings?order=key.asc", func(body []byte) error {
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, &settings)
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// GetSetting fetches a single setting by key.
func (c *Client) GetSetting(ctx context.Context, key string) (*domain.WebSetting, error) {
	ctx, span := tracer.Start(ctx, "supabase.GetSetting",
		trace.WithAttributes(attribute.String("setting.key", key)))
	defer span.End()

	path := fmt.Sprintf("web_settings?key=eq.%s&limit=1", url.QueryEscape(key))

	var setting *domain.WebSetting
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		var rows []domain.WebSetting
		if len(body) == 0 {
			return &domain.ErrNotFound{Resource: "setting", ID: key}
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "setting", ID: key}
		}
		setting = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// UpsertSetting writes a setting, inserting or replacing on key.
func (c *Client) UpsertSetting(ctx context.Context, key, value string) (*domain.WebSetting, error) {
	ctx, span := tracer.Start(ctx, "supabase.UpsertSetting",
		trace.WithAttributes(attribute.String("setting.key", key)))
	defer span.End()

	body, err := c.doUpsert(ctx, "web_settings", domain.WebSetting{Key: key, Value: value})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.WebSetting
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("upsert returned no rows")}
	}
	return &rows[0], nil
}
