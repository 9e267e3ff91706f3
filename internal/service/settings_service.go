package service

import (
	"context"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SettingsService implements the admin web_settings key/value store.
type SettingsService struct {
	store  port.SettingsStore
	logger *zap.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(store port.SettingsStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// ListSettings returns every setting.
func (s *SettingsService) ListSettings(ctx context.Context) ([]domain.WebSetting, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.ListSettings")
	defer span.End()

	return s.store.ListSettings(ctx)
}

// GetSetting returns one setting by key.
func (s *SettingsService) GetSetting(ctx context.Context, key string) (*domain.WebSetting, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.GetSetting",
		trace.WithAttributes(attribute.String("setting.key", key)))
	defer span.End()

	if key == "" {
		return nil, &domain.ErrValidation{Field: "key", Message: "key is required"}
	}
	return s.store.GetSetting(ctx, key)
}

// UpsertSetting writes a setting.
func (s *SettingsService) UpsertSetting(ctx context.Context, key, value string) (*domain.WebSetting, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.UpsertSetting",
		trace.WithAttributes(attribute.String("setting.key", key)))
	defer span.End()

	if key == "" {
		return nil, &domain.ErrValidation{Field: "key", Message: "key is required"}
	}

	setting, err := s.store.UpsertSetting(ctx, key, value)
	if err != nil {
		return nil, err
	}

	s.logger.Info("setting updated", zap.String("key", key))
	return setting, nil
}
