// Package vcard turns a business card record into a vCard 3.0 document.
//
// The composer is pure and synchronous: record in, UTF-8 text out. It walks
// the card's template elements in their authored order, classifies each
// resolved value through the fieldRules table, then back-fills any still-empty
// slots from the card's flat legacy columns and social links. Output ordering
// is fixed so composition is deterministic and byte-stable for identical
// input.
package vcard

import (
	"strings"

	"github.com/kittipos/namecard-bff-go/internal/domain"
)

const version = "3.0"

// Filename returns the attachment filename for a card's vCard download:
// the display name with spaces replaced by underscores, plus ".vcf".
func Filename(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_") + ".vcf"
}

// document accumulates classified property values in their fixed output
// slots. Slices keep template encounter order.
type document struct {
	title  string
	org    string
	tels   []typedValue
	emails []typedValue
	adrs   []typedValue
	urls   []typedValue
	bday   string
	notes  []string
}

type typedValue struct {
	typeParam string
	value     string
}

// Compose produces the vCard 3.0 document for one business card.
// It returns ErrValidation when the mandatory display name cannot be
// resolved; individual malformed template elements are skipped, never fatal.
func Compose(card *domain.BusinessCard) (string, error) {
	if card == nil {
		return "", &domain.ErrValidation{Field: "card", Message: "required"}
	}

	name := resolveNames(card)
	if name.Display == "" {
		return "", &domain.ErrValidation{Field: "name", Message: "required"}
	}

	doc := &document{}
	processed := make(map[string]bool)

	if card.Template != nil {
		for _, el := range card.Template.Elements {
			composeElement(doc, processed, card, el)
		}
	}
	fillFromLegacy(doc, processed, card)

	return assemble(doc, name), nil
}

// composeElement classifies one template element and records its value on the
// document. Singleton properties are first-wins in template order; later
// elements mapping to the same slot are dropped silently.
func composeElement(doc *document, processed map[string]bool, card *domain.BusinessCard, el domain.TemplateElement) {
	if el.ID == "" {
		return
	}
	value := resolveElementValue(card, el)
	if value == "" {
		return
	}

	rule, known := classify(el.Field)
	if !known {
		rule = defaultRule(el, value)
	}
	if rule.Skip {
		return
	}
	if rule.Singleton {
		if processed[rule.Key] {
			return
		}
		processed[rule.Key] = true
	}

	emit(doc, rule, value)
}

// defaultRule handles tags outside the table. A tagged-but-unrecognized
// element becomes a NOTE labeled with its raw tag. A truly untagged element
// gets value-shape sniffing as a last resort before the generic NOTE.
func defaultRule(el domain.TemplateElement, value string) emission {
	if el.Field != "" {
		return emission{Property: propNote, NoteLabel: el.Field}
	}
	switch {
	case emailPattern.MatchString(value):
		return emission{Property: propEmail, TypeParam: "HOME"}
	case phonePattern.MatchString(value):
		return emission{Property: propTel, TypeParam: "HOME"}
	default:
		return emission{Property: propNote, NoteLabel: "Field " + el.ID}
	}
}

func emit(doc *document, rule emission, value string) {
	switch rule.Property {
	case propTitle:
		doc.title = value
	case propOrg:
		doc.org = value
	case propTel:
		doc.tels = append(doc.tels, typedValue{rule.TypeParam, value})
	case propEmail:
		doc.emails = append(doc.emails, typedValue{rule.TypeParam, value})
	case propAdr:
		// First template address is the work one, second the home one,
		// by encounter order; further ones stay untyped.
		typeParam := ""
		switch len(doc.adrs) {
		case 0:
			typeParam = "WORK"
		case 1:
			typeParam = "HOME"
		}
		doc.adrs = append(doc.adrs, typedValue{typeParam, value})
	case propURL:
		doc.urls = append(doc.urls, typedValue{rule.TypeParam, value})
	case propBday:
		doc.bday = value
	case propNote:
		note := value
		if rule.NoteLabel != "" {
			note = rule.NoteLabel + ": " + value
		}
		doc.notes = append(doc.notes, note)
	}
}

// fillFromLegacy back-fills slots the template left empty from the card's
// flat columns and social links. Fallback lines carry no TYPE parameter
// because the flat schema has no work/home distinction.
func fillFromLegacy(doc *document, processed map[string]bool, card *domain.BusinessCard) {
	if doc.title == "" {
		doc.title = strings.TrimSpace(card.JobTitle)
	}
	if doc.org == "" {
		doc.org = strings.TrimSpace(card.Company)
	}
	if len(doc.tels) == 0 {
		if phone := strings.TrimSpace(card.Phone); phone != "" {
			doc.tels = append(doc.tels, typedValue{value: phone})
		}
	}
	if len(doc.emails) == 0 {
		if email := strings.TrimSpace(card.Email); email != "" {
			doc.emails = append(doc.emails, typedValue{value: email})
		}
	}
	if len(doc.adrs) == 0 {
		if addr := strings.TrimSpace(card.Address); addr != "" {
			doc.adrs = append(doc.adrs, typedValue{value: addr})
		}
	}
	for _, platform := range socialPlatforms {
		if processed["URL#"+platform] {
			continue
		}
		if link := strings.TrimSpace(card.SocialLinks[platform]); link != "" {
			doc.urls = append(doc.urls, typedValue{strings.ToUpper(platform), link})
		}
	}
	if !processed[propURL] {
		if site := strings.TrimSpace(card.SocialLinks["website"]); site != "" {
			doc.urls = append(doc.urls, typedValue{value: site})
		}
	}
}

// assemble serializes the document in the fixed property order with CRLF
// line endings.
func assemble(doc *document, name resolvedName) string {
	var b strings.Builder
	writeLine := func(property, typeParam, value string) {
		b.WriteString(property)
		if typeParam != "" {
			b.WriteString(";TYPE=")
			b.WriteString(typeParam)
		}
		b.WriteString(":")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	b.WriteString("BEGIN:VCARD\r\n")
	writeLine("VERSION", "", version)
	writeLine("FN", "", escapeValue(name.Display))
	b.WriteString("N:")
	b.WriteString(structuredName(name.Display))
	b.WriteString("\r\n")

	if doc.title != "" {
		writeLine(propTitle, "", escapeValue(doc.title))
	}
	if doc.org != "" {
		writeLine(propOrg, "", escapeValue(doc.org))
	}
	for _, tel := range doc.tels {
		writeLine(propTel, tel.typeParam, escapeValue(tel.value))
	}
	for _, email := range doc.emails {
		writeLine(propEmail, email.typeParam, escapeValue(email.value))
	}
	for _, adr := range doc.adrs {
		// Single unstructured street string in ADR component 3.
		writeLine(propAdr, adr.typeParam, ";;"+escapeValue(adr.value)+";;;;")
	}
	for _, url := range doc.urls {
		writeLine(propURL, url.typeParam, escapeValue(url.value))
	}
	if doc.bday != "" {
		writeLine(propBday, "", escapeValue(doc.bday))
	}
	if name.ThaiNote != "" {
		writeLine(propNote, "", "Thai Name: "+escapeValue(name.ThaiNote))
	}
	for _, note := range doc.notes {
		writeLine(propNote, "", escapeValue(note))
	}
	b.WriteString("END:VCARD\r\n")

	return b.String()
}
