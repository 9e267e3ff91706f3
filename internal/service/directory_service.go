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

// DirectoryService implements profile and address operations.
type DirectoryService struct {
	store  port.DirectoryStore
	logger *zap.Logger
}

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(store port.DirectoryStore, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{store: store, logger: logger}
}

// GetProfile returns a user's profile.
func (s *DirectoryService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "DirectoryService.GetProfile",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	return s.store.GetProfile(ctx, userID)
}

// UpdateProfile applies a partial profile update from a raw field map.
// user_id is not updatable.
func (s *DirectoryService) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "DirectoryService.UpdateProfile",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	delete(updates, "user_id")
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return s.store.UpdateProfile(ctx, userID, updates)
}

// ListAddresses returns a user's saved addresses.
func (s *DirectoryService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	ctx, span := tracer.Start(ctx, "DirectoryService.ListAddresses",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	return s.store.ListAddresses(ctx, userID)
}

// CreateAddress validates and inserts an address.
func (s *DirectoryService) CreateAddress(ctx context.Context, addr *domain.Address) (*domain.Address, error) {
	ctx, span := tracer.Start(ctx, "DirectoryService.CreateAddress")
	defer span.End()

	if addr.UserID == "" {
		return nil, &domain.ErrValidation{Field: "user_id", Message: "user_id is required"}
	}
	if addr.Line1 == "" {
		return nil, &domain.ErrValidation{Field: "line1", Message: "line1 is required"}
	}

	addr.ID = uuid.NewString()
	created, err := s.store.CreateAddress(ctx, addr)
	if err != nil {
		return nil, err
	}

	s.logger.Info("address created",
		zap.String("address_id", created.ID),
		zap.String("user_id", created.UserID),
	)
	return created, nil
}

// UpdateAddress applies a partial address update.
func (s *DirectoryService) UpdateAddress(ctx context.Context, addressID string, updates map[string]any) (*domain.Address, error) {
	ctx, span := tracer.Start(ctx, "DirectoryService.UpdateAddress",
		trace.WithAttributes(attribute.String("address.id", addressID)))
	defer span.End()

	delete(updates, "id")
	delete(updates, "user_id")
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return s.store.UpdateAddress(ctx, addressID, updates)
}

// DeleteAddress removes an address.
func (s *DirectoryService) DeleteAddress(ctx context.Context, addressID string) error {
	ctx, span := tracer.Start(ctx, "DirectoryService.DeleteAddress",
		trace.WithAttributes(attribute.String("address.id", addressID)))
	defer span.End()

	return s.store.DeleteAddress(ctx, addressID)
}
