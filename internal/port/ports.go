// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the PostgREST adapter.
package port

import (
	"context"

	"github.com/kittipos/namecard-bff-go/internal/domain"
)

// CardStore defines data operations on the business_cards table.
type CardStore interface {
	GetCard(ctx context.Context, cardID string) (*domain.BusinessCard, error)
	GetCardBySlug(ctx context.Context, slug string) (*domain.BusinessCard, error)
	ListCards(ctx context.Context, userID string) ([]domain.BusinessCard, error)
	CreateCard(ctx context.Context, card *domain.BusinessCard) (*domain.BusinessCard, error)
	UpdateCard(ctx context.Context, cardID string, updates map[string]any) (*domain.BusinessCard, error)
	DeleteCard(ctx context.Context, cardID string) error
}

// TemplateStore defines data operations on the templates table.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	GetTemplate(ctx context.Context, templateID string) (*domain.Template, error)
	CreateTemplate(ctx context.Context, tpl *domain.Template) (*domain.Template, error)
	UpdateTemplate(ctx context.Context, templateID string, updates map[string]any) (*domain.Template, error)
	DeleteTemplate(ctx context.Context, templateID string) error
}

// ViewTracker is the view-tracking sink (card_views table). Insert is only
// ever invoked on the fire-and-forget path; reads back the analytics.
type ViewTracker interface {
	InsertCardView(ctx context.Context, view *domain.CardView) error
	CountCardViews(ctx context.Context, cardID string) (int, error)
	ListRecentViews(ctx context.Context, cardID string, limit int) ([]domain.CardView, error)
}

// DirectoryStore defines data operations on profiles and addresses.
type DirectoryStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.Profile, error)

	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, addr *domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, addressID string, updates map[string]any) (*domain.Address, error)
	DeleteAddress(ctx context.Context, addressID string) error
}

// SettingsStore defines data operations on the web_settings table.
type SettingsStore interface {
	ListSettings(ctx context.Context) ([]domain.WebSetting, error)
	GetSetting(ctx context.Context, key string) (*domain.WebSetting, error)
	UpsertSetting(ctx context.Context, key, value string) (*domain.WebSetting, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
