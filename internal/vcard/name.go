package vcard

import (
	"strings"

	"github.com/kittipos/namecard-bff-go/internal/domain"
)

// resolvedName is the outcome of name resolution: the value backing FN/N and,
// when both scripts were present, the demoted name for a NOTE line.
type resolvedName struct {
	Display  string
	ThaiNote string
}

// resolveNames picks the card's formatted name. When a card carries both a
// Thai-tagged and an English-tagged name element, FN/N use the Latin-script
// value for compatibility with generic vCard consumers and the Thai value is
// demoted to a labeled NOTE. With only one script present that value wins;
// with neither, the card's flat display name is the fallback.
func resolveNames(card *domain.BusinessCard) resolvedName {
	var thai, english string
	if card.Template != nil {
		for _, el := range card.Template.Elements {
			if el.ID == "" {
				continue
			}
			switch el.Field {
			case "name":
				if thai == "" {
					thai = resolveElementValue(card, el)
				}
			case "nameEn":
				if english == "" {
					english = resolveElementValue(card, el)
				}
			}
		}
	}

	switch {
	case thai != "" && english != "":
		return resolvedName{Display: english, ThaiNote: thai}
	case thai != "":
		return resolvedName{Display: thai}
	case english != "":
		return resolvedName{Display: english}
	default:
		return resolvedName{Display: strings.TrimSpace(card.Name)}
	}
}

// structuredName approximates the 5-component N grammar
// (Family;Given;Middle;Prefix;Suffix) by reverse-splitting the display name
// on whitespace; the source data has no separate given/family fields.
func structuredName(display string) string {
	parts := strings.Fields(display)
	components := make([]string, 0, 5)
	for i := len(parts) - 1; i >= 0; i-- {
		components = append(components, escapeValue(parts[i]))
	}
	for len(components) < 5 {
		components = append(components, "")
	}
	return strings.Join(components[:5], ";")
}

// resolveElementValue applies the field_values-over-content precedence and
// trims; empty means the element contributes nothing.
func resolveElementValue(card *domain.BusinessCard, el domain.TemplateElement) string {
	if v := strings.TrimSpace(card.FieldValues[el.ID]); v != "" {
		return v
	}
	return strings.TrimSpace(el.Content)
}
