package domain

import "time"

// Template is an authored card layout. Elements is the ordered list of
// placeholder slots; element order is significant for vCard composition.
type Template struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PreviewURL  string            `json:"preview_url,omitempty"`
	Elements    []TemplateElement `json:"elements"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at,omitempty"`
}

// TemplateElement is one placeholder slot on a template.
type TemplateElement struct {
	// ID keys the card's FieldValues map.
	ID string `json:"id"`

	// Field is the semantic tag (name, nameEn, workPhone, ...). Open-ended;
	// unrecognized tags still render as labeled NOTE lines in the vCard.
	Field string `json:"field,omitempty"`

	// Content is the static fallback text when the card has no FieldValues
	// entry for this element.
	Content string `json:"content,omitempty"`

	// Editor geometry, carried through unmodified.
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// CreateTemplateRequest is the payload for POST /v1/templates.
type CreateTemplateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PreviewURL  string            `json:"preview_url,omitempty"`
	Elements    []TemplateElement `json:"elements"`
}
