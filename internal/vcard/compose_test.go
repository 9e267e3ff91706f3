package vcard_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kittipos/namecard-bff-go/internal/domain"
	"github.com/kittipos/namecard-bff-go/internal/vcard"
)

func lines(t *testing.T, doc string) []string {
	t.Helper()
	if !strings.HasSuffix(doc, "\r\n") {
		t.Fatalf("document must end with CRLF, got %q", doc[len(doc)-4:])
	}
	return strings.Split(strings.TrimSuffix(doc, "\r\n"), "\r\n")
}

func countLines(doc string, prefix string) int {
	n := 0
	for _, l := range strings.Split(doc, "\r\n") {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func templateCard(name string, elements []domain.TemplateElement, values map[string]string) *domain.BusinessCard {
	return &domain.BusinessCard{
		ID:          "card-1",
		Name:        name,
		FieldValues: values,
		Template:    &domain.Template{ID: "tpl-1", Elements: elements},
	}
}

func TestCompose_MinimalCard(t *testing.T) {
	card := &domain.BusinessCard{ID: "card-1", Name: "Jane Doe"}

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Jane Doe",
		"N:Doe;Jane;;;",
		"END:VCARD",
	}
	got := lines(t, doc)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCompose_Structure(t *testing.T) {
	card := &domain.BusinessCard{Name: "Jane Doe", Phone: "021234567", Email: "jane@example.com"}

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	all := lines(t, doc)
	if all[0] != "BEGIN:VCARD" || all[1] != "VERSION:3.0" {
		t.Errorf("bad preamble: %q", all[:2])
	}
	if all[len(all)-1] != "END:VCARD" {
		t.Errorf("expected END:VCARD last, got %q", all[len(all)-1])
	}
	if countLines(doc, "BEGIN:") != 1 || countLines(doc, "END:") != 1 {
		t.Errorf("expected exactly one BEGIN/END pair:\n%s", doc)
	}
}

func TestCompose_FullTemplateScenario(t *testing.T) {
	card := templateCard("fallback", []domain.TemplateElement{
		{ID: "e1", Field: "name"},
		{ID: "e2", Field: "nameEn"},
		{ID: "e3", Field: "workPhone"},
		{ID: "e4", Field: "personalPhone"},
	}, map[string]string{
		"e1": "สมชาย",
		"e2": "Somchai",
		"e3": "021234567",
		"e4": "0891234567",
	})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{
		"FN:Somchai",
		"NOTE:Thai Name: สมชาย",
		"TEL;TYPE=WORK:021234567",
		"TEL;TYPE=CELL:0891234567",
	} {
		if !strings.Contains(doc, want+"\r\n") {
			t.Errorf("expected line %q in:\n%s", want, doc)
		}
	}
	if countLines(doc, "NOTE:") != 1 {
		t.Errorf("expected exactly one NOTE line:\n%s", doc)
	}
}

func TestCompose_NamePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		wantFN   string
		wantNote bool
	}{
		{"both scripts", map[string]string{"th": "สมหญิง", "en": "Somying"}, "FN:Somying", true},
		{"thai only", map[string]string{"th": "สมหญิง"}, "FN:สมหญิง", false},
		{"english only", map[string]string{"en": "Somying"}, "FN:Somying", false},
		{"neither", map[string]string{}, "FN:Flat Name", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := templateCard("Flat Name", []domain.TemplateElement{
				{ID: "th", Field: "name"},
				{ID: "en", Field: "nameEn"},
			}, tt.values)

			doc, err := vcard.Compose(card)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(doc, tt.wantFN+"\r\n") {
				t.Errorf("expected %q in:\n%s", tt.wantFN, doc)
			}
			hasNote := strings.Contains(doc, "NOTE:Thai Name: ")
			if hasNote != tt.wantNote {
				t.Errorf("thai note presence = %v, want %v:\n%s", hasNote, tt.wantNote, doc)
			}
		})
	}
}

func TestCompose_SingletonSuppression(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "workPosition"},
		{ID: "e2", Field: "workPosition"},
	}, map[string]string{
		"e1": "Engineer",
		"e2": "Manager",
	})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if countLines(doc, "TITLE:") != 1 {
		t.Fatalf("expected exactly one TITLE line:\n%s", doc)
	}
	if !strings.Contains(doc, "TITLE:Engineer\r\n") {
		t.Errorf("expected first element to win:\n%s", doc)
	}
}

func TestCompose_FallbackActivation(t *testing.T) {
	card := &domain.BusinessCard{
		Name:        "Jane Doe",
		Phone:       "0812345678",
		FieldValues: map[string]string{},
	}

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if countLines(doc, "TEL") != 1 {
		t.Fatalf("expected exactly one TEL line:\n%s", doc)
	}
	if !strings.Contains(doc, "TEL:0812345678\r\n") {
		t.Errorf("fallback TEL must carry no TYPE parameter:\n%s", doc)
	}
}

func TestCompose_FallbackSuppressedByTemplate(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "workPhone"},
	}, map[string]string{"e1": "021111111"})
	card.Phone = "0899999999"

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if countLines(doc, "TEL") != 1 {
		t.Errorf("legacy phone must not be added when the template emitted a TEL:\n%s", doc)
	}
	if strings.Contains(doc, "0899999999") {
		t.Errorf("legacy phone leaked into output:\n%s", doc)
	}
}

// unescapeValue reverses RFC 6350 §3.4 escaping, standing in for a
// conformant consumer in round-trip checks.
func unescapeValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n', 'N':
				b.WriteByte('\n')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestCompose_Escaping(t *testing.T) {
	original := `Sales; North, East \ Region` + "\nSecond line"
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "department"},
	}, map[string]string{"e1": original})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var noteLine string
	for _, l := range lines(t, doc) {
		if strings.HasPrefix(l, "NOTE:") {
			noteLine = strings.TrimPrefix(l, "NOTE:")
		}
	}
	if noteLine == "" {
		t.Fatalf("no NOTE line found:\n%s", doc)
	}
	if strings.ContainsAny(strings.NewReplacer(`\\`, "", `\;`, "", `\,`, "", `\n`, "").Replace(noteLine), `;,`) {
		t.Errorf("unescaped reserved characters in %q", noteLine)
	}
	if got := unescapeValue(noteLine); got != "Department: "+original {
		t.Errorf("round-trip mismatch:\n got %q\nwant %q", got, "Department: "+original)
	}
}

func TestCompose_Idempotence(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "workPhone"},
		{ID: "e2", Field: "linkedin"},
		{ID: "e3", Field: "lineId"},
	}, map[string]string{
		"e1": "021234567",
		"e2": "https://linkedin.com/in/jane",
		"e3": "@janedoe",
	})
	card.SocialLinks = map[string]string{"website": "https://jane.example", "facebook": "https://fb.com/jane"}

	first, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first != second {
		t.Errorf("output not byte-identical:\n%s\n---\n%s", first, second)
	}
}

func TestCompose_MissingName(t *testing.T) {
	_, err := vcard.Compose(&domain.BusinessCard{ID: "card-1", Name: "   "})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if validation.Field != "name" {
		t.Errorf("expected field 'name', got %q", validation.Field)
	}
}

func TestCompose_MalformedElementSkipped(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{Field: "workPhone", Content: "dropped, no id"},
		{ID: "e2", Field: "workEmail"},
	}, map[string]string{"e2": "jane@work.example"})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if countLines(doc, "TEL") != 0 {
		t.Errorf("element without id must be skipped:\n%s", doc)
	}
	if !strings.Contains(doc, "EMAIL;TYPE=WORK:jane@work.example\r\n") {
		t.Errorf("later elements must still be processed:\n%s", doc)
	}
}

func TestCompose_FieldValuesOverrideContent(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "workPosition", Content: "Placeholder Title"},
	}, map[string]string{"e1": "CTO"})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(doc, "TITLE:CTO\r\n") {
		t.Errorf("field value must beat element content:\n%s", doc)
	}

	// Whitespace-only override falls back to static content.
	card.FieldValues["e1"] = "   "
	doc, err = vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(doc, "TITLE:Placeholder Title\r\n") {
		t.Errorf("blank field value must fall back to content:\n%s", doc)
	}
}

func TestCompose_AddressOrdering(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "address"},
		{ID: "e2", Field: "homeAddress"},
		{ID: "e3", Field: "ที่อยู่"},
	}, map[string]string{
		"e1": "1 Office Rd",
		"e2": "2 Home Ln",
		"e3": "3 Extra St",
	})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		"ADR;TYPE=WORK:;;1 Office Rd;;;;",
		"ADR;TYPE=HOME:;;2 Home Ln;;;;",
		"ADR:;;3 Extra St;;;;",
	} {
		if !strings.Contains(doc, want+"\r\n") {
			t.Errorf("expected %q in:\n%s", want, doc)
		}
	}
}

func TestCompose_UnrecognizedAndUntaggedElements(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "motto"},
		{ID: "e2"},
		{ID: "e3"},
		{ID: "e4"},
	}, map[string]string{
		"e1": "Carpe diem",
		"e2": "jane@home.example",
		"e3": "+66 81 234 5678",
		"e4": "just some text",
	})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		"NOTE:motto: Carpe diem",
		"EMAIL;TYPE=HOME:jane@home.example",
		"TEL;TYPE=HOME:+66 81 234 5678",
		"NOTE:Field e4: just some text",
	} {
		if !strings.Contains(doc, want+"\r\n") {
			t.Errorf("expected %q in:\n%s", want, doc)
		}
	}
}

func TestCompose_SocialLinksBackfill(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "e1", Field: "linkedin"},
	}, map[string]string{"e1": "https://linkedin.com/in/jane"})
	card.SocialLinks = map[string]string{
		"linkedin": "https://linkedin.com/in/ignored",
		"twitter":  "https://twitter.com/jane",
		"website":  "https://jane.example",
	}

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(doc, "URL;TYPE=LINKEDIN:https://linkedin.com/in/jane\r\n") {
		t.Errorf("template linkedin must win:\n%s", doc)
	}
	if strings.Contains(doc, "ignored") {
		t.Errorf("social_links must not duplicate a template platform:\n%s", doc)
	}
	if !strings.Contains(doc, "URL;TYPE=TWITTER:https://twitter.com/jane\r\n") {
		t.Errorf("missing twitter backfill:\n%s", doc)
	}
	if !strings.Contains(doc, "URL:https://jane.example\r\n") {
		t.Errorf("missing bare website URL:\n%s", doc)
	}
}

func TestCompose_EmissionOrder(t *testing.T) {
	card := templateCard("Jane Doe", []domain.TemplateElement{
		{ID: "n1", Field: "lineId"},
		{ID: "n2", Field: "birthday"},
		{ID: "n3", Field: "workEmail"},
		{ID: "n4", Field: "workName"},
		{ID: "n5", Field: "workPosition"},
	}, map[string]string{
		"n1": "@jane",
		"n2": "1990-04-01",
		"n3": "jane@work.example",
		"n4": "Acme Co",
		"n5": "CTO",
	})

	doc, err := vcard.Compose(card)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	order := []string{"BEGIN:VCARD", "VERSION:", "FN:", "N:", "TITLE:", "ORG:", "EMAIL", "BDAY:", "NOTE:", "END:VCARD"}
	all := lines(t, doc)
	last := -1
	for _, prefix := range order {
		idx := -1
		for i, l := range all {
			if strings.HasPrefix(l, prefix) {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("missing %q in:\n%s", prefix, doc)
		}
		if idx < last {
			t.Errorf("%q emitted out of order:\n%s", prefix, doc)
		}
		last = idx
	}
}

func TestStructuredName(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Jane Doe", "N:Doe;Jane;;;"},
		{"Jane", "N:Jane;;;;"},
		{"Jane Q Public", "N:Public;Q;Jane;;"},
	}
	for _, tt := range tests {
		doc, err := vcard.Compose(&domain.BusinessCard{Name: tt.display})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(doc, tt.want+"\r\n") {
			t.Errorf("for %q expected %q in:\n%s", tt.display, tt.want, doc)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := vcard.Filename("Jane Q Public"); got != "Jane_Q_Public.vcf" {
		t.Errorf("expected Jane_Q_Public.vcf, got %q", got)
	}
}
