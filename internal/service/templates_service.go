package service

import (
	"context"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TemplatesService implements template CRUD.
type TemplatesService struct {
	store  port.TemplateStore
	logger *zap.Logger
}

// NewTemplatesService creates a TemplatesService.
func NewTemplatesService(store port.TemplateStore, logger *zap.Logger) *TemplatesService {
	return &TemplatesService{store: store, logger: logger}
}

// ListTemplates returns every template.
func (s *TemplatesService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	ctx, span := tracer.Start(ctx, "TemplatesService.ListTemplates")
	defer span.End()

	return s.store.ListTemplates(ctx)
}

// GetTemplate returns a template by id.
func (s *TemplatesService) GetTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	ctx, span := tracer.Start(ctx, "TemplatesService.GetTemplate",
		trace.WithAttributes(attribute.String("template.id", templateID)))
	defer span.End()

	return s.store.GetTemplate(ctx, templateID)
}

// CreateTemplate validates and inserts a template. Elements keep their
// editor-assigned ids; elements arriving without one get a fresh uuid so
// card field_values always have a stable key to bind to.
func (s *TemplatesService) CreateTemplate(ctx context.Context, req *domain.CreateTemplateRequest) (*domain.Template, error) {
	ctx, span := tracer.Start(ctx, "TemplatesService.CreateTemplate")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}

	elements := make([]domain.TemplateElement, len(req.Elements))
	copy(elements, req.Elements)
	for i := range elements {
		if elements[i].ID == "" {
			elements[i].ID = uuid.NewString()
		}
	}

	tpl := &domain.Template{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		Elements:    elements,
	}

	created, err := s.store.CreateTemplate(ctx, tpl)
	if err != nil {
		return nil, err
	}

	s.logger.Info("template created", zap.String("template_id", created.ID))
	return created, nil
}

// UpdateTemplate applies a partial update from a raw field map.
func (s *TemplatesService) UpdateTemplate(ctx context.Context, templateID string, updates map[string]any) (*domain.Template, error) {
	ctx, span := tracer.Start(ctx, "TemplatesService.UpdateTemplate",
		trace.WithAttributes(attribute.String("template.id", templateID)))
	defer span.End()

	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}
	if name, ok := updates["name"]; ok {
		if str, _ := name.(string); str == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
	}

	return s.store.UpdateTemplate(ctx, templateID, updates)
}

// DeleteTemplate removes a template.
func (s *TemplatesService) DeleteTemplate(ctx context.Context, templateID string) error {
	ctx, span := tracer.Start(ctx, "TemplatesService.DeleteTemplate",
		trace.WithAttributes(attribute.String("template.id", templateID)))
	defer span.End()

	return s.store.DeleteTemplate(ctx, templateID)
}
