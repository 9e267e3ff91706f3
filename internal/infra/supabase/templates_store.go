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

// ListTemplates returns every template, newest first.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	ctx, span := tracer.Start(ctx, "supabase.ListTemplates")
	defer span.End()

	templates := []domain.Template{}
	err := c.getWithResilience(ctx, "supabase", "templates?order=created_at.desc", func(body []byte) error {
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, &templates)
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate fetches a template by id.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	ctx, span := tracer.Start(ctx, "supabase.GetTemplate",
		trace.WithAttributes(attribute.String("template.id", templateID)))
	defer span.End()

	path := fmt.Sprintf("templates?id=eq.%s&limit=1", url.QueryEscape(templateID))

	var tpl *domain.Template
	err := c.getWithResilience(ctx, "supabase", path, func(body []byte) error {
		var rows []domain.Template
		if len(body) == 0 {
			return &domain.ErrNotFound{Resource: "template", ID: templateID}
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return err
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "template", ID: templateID}
		}
		tpl = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tpl, nil
}

// CreateTemplate inserts a template and returns the stored row.
func (c *Client) CreateTemplate(ctx context.Context, tpl *domain.Template) (*domain.Template, error) {
	ctx, span := tracer.Start(ctx, "supabase.CreateTemplate")
	defer span.End()

	body, err := c.doPost(ctx, "templates", tpl)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.Template
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: fmt.Errorf("insert returned no rows")}
	}

	c.logger.Info("template created", zap.String("template_id", rows[0].ID))
	return &rows[0], nil
}

// UpdateTemplate patches a template row.
func (c *Client) UpdateTemplate(ctx context.Context, templateID string, updates map[string]any) (*domain.Template, error) {
	ctx, span := tracer.Start(ctx, "supabase.UpdateTemplate",
		trace.WithAttributes(attribute.String("template.id", templateID)))
	defer span.End()

	path := fmt.Sprintf("templates?id=eq.%s", url.QueryEscape(templateID))
	body, err := c.doPatch(ctx, path, updates)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
	}

	var rows []domain.Template
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, &domain.ErrExternalService{Service: "supabase", Err: err}
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "template", ID: templateID}
	}
	return &rows[0], nil
}

// DeleteTemplate removes a template row.
func (c *Client) DeleteTemplate(ctx context.Context, templateID string) error {
	ctx, span := tracer.Start(ctx, "supabase.DeleteTemplate",
		trace.WithAttributes(attribute.String("template.id", templateID)))
	defer span.End()

	path := fmt.Sprintf("templates?id=eq.%s", url.QueryEscape(templateID))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
