package domain

import "time"

// BusinessCard is a user's digital business card. The flat contact columns
// (JobTitle, Company, Phone, Email, Address) are the legacy schema; cards
// built with the visual editor carry a linked template plus per-card
// FieldValues keyed by template element id.
type BusinessCard struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Name is the display name and is mandatory on every card.
	Name string `json:"name"`

	// Slug is the public share path (/c/{slug}).
	Slug string `json:"slug,omitempty"`

	JobTitle string `json:"job_title,omitempty"`
	Company  string `json:"company,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`

	AvatarURL string `json:"avatar_url,omitempty"`

	// SocialLinks maps platform name (website, linkedin, facebook, twitter,
	// instagram, ...) to a URL. Absent or empty keys are ignored.
	SocialLinks map[string]string `json:"social_links,omitempty"`

	// FieldValues overrides template element content, keyed by element id.
	FieldValues map[string]string `json:"field_values,omitempty"`

	TemplateID string `json:"template_id,omitempty"`

	// Template is populated when the card is fetched with its embedded
	// templates row (PostgREST select=*,templates(*)).
	Template *Template `json:"templates,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CardStats aggregates view-tracking data for one card.
type CardStats struct {
	CardID      string     `json:"card_id"`
	TotalViews  int        `json:"total_views"`
	RecentViews []CardView `json:"recent_views"`
}

// CreateCardRequest is the payload for POST /v1/cards.
type CreateCardRequest struct {
	UserID      string            `json:"user_id"`
	Name        string            `json:"name"`
	JobTitle    string            `json:"job_title,omitempty"`
	Company     string            `json:"company,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Email       string            `json:"email,omitempty"`
	Address     string            `json:"address,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
	FieldValues map[string]string `json:"field_values,omitempty"`
	TemplateID  string            `json:"template_id,omitempty"`
}

// UpdateCardRequest is the payload for PUT /v1/cards/{cardId}.
// Nil pointers mean "leave unchanged".
type UpdateCardRequest struct {
	Name        *string            `json:"name,omitempty"`
	JobTitle    *string            `json:"job_title,omitempty"`
	Company     *string            `json:"company,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Email       *string            `json:"email,omitempty"`
	Address     *string            `json:"address,omitempty"`
	AvatarURL   *string            `json:"avatar_url,omitempty"`
	SocialLinks *map[string]string `json:"social_links,omitempty"`
	FieldValues *map[string]string `json:"field_values,omitempty"`
	TemplateID  *string            `json:"template_id,omitempty"`
}
