package vcard

import "regexp"

// vCard property names used by the classification table.
const (
	propTitle = "TITLE"
	propOrg   = "ORG"
	propTel   = "TEL"
	propEmail = "EMAIL"
	propAdr   = "ADR"
	propURL   = "URL"
	propBday  = "BDAY"
	propNote  = "NOTE"
)

// thaiAddressLabel is the free-text Thai label card authors use for an
// address slot instead of a semantic tag.
const thaiAddressLabel = "ที่อยู่"

// emission is one row of the field-classification table: it tells the
// composer which vCard property a template element's value lands on and how.
type emission struct {
	Property  string
	TypeParam string
	NoteLabel string

	// Singleton emissions are suppressed after the first element (in
	// template order) claims Key. Multi-valued properties leave Key empty
	// and accumulate without suppression.
	Singleton bool
	Key       string

	// Skip marks tags consumed elsewhere (name resolution).
	Skip bool
}

// fieldRules maps template element tags to emission rules. Adding support for
// a new tag is a table entry, not new control flow.
var fieldRules = map[string]emission{
	// Names are resolved by resolveNames, not emitted here.
	"name":   {Skip: true},
	"nameEn": {Skip: true},

	"workPosition": {Property: propTitle, Singleton: true, Key: propTitle},
	"jobTitle":     {Property: propTitle, Singleton: true, Key: propTitle},

	"workName": {Property: propOrg, Singleton: true, Key: propOrg},
	"company":  {Property: propOrg, Singleton: true, Key: propOrg},

	"workPhone": {Property: propTel, TypeParam: "WORK", Singleton: true, Key: "TEL#work"},

	// Personal phones: at most one line per distinct tag.
	"personalPhone": {Property: propTel, TypeParam: "CELL", Singleton: true, Key: "TEL#personalPhone"},
	"mobile":        {Property: propTel, TypeParam: "CELL", Singleton: true, Key: "TEL#mobile"},
	"phone":         {Property: propTel, TypeParam: "HOME", Singleton: true, Key: "TEL#phone"},

	"workEmail": {Property: propEmail, TypeParam: "WORK", Singleton: true, Key: "EMAIL#work"},

	"personalEmail": {Property: propEmail, TypeParam: "HOME"},
	"homeEmail":     {Property: propEmail, TypeParam: "HOME"},
	"email":         {Property: propEmail, TypeParam: "HOME"},

	"homeAddress":    {Property: propAdr},
	"address":        {Property: propAdr},
	thaiAddressLabel: {Property: propAdr},

	"linkedin":  {Property: propURL, TypeParam: "LINKEDIN", Singleton: true, Key: "URL#linkedin"},
	"facebook":  {Property: propURL, TypeParam: "FACEBOOK", Singleton: true, Key: "URL#facebook"},
	"twitter":   {Property: propURL, TypeParam: "TWITTER", Singleton: true, Key: "URL#twitter"},
	"instagram": {Property: propURL, TypeParam: "INSTAGRAM", Singleton: true, Key: "URL#instagram"},

	// Bare URL slot: a single untyped URL line, claimed by website/homepage
	// or back-filled from social_links.website.
	"website":  {Property: propURL, Singleton: true, Key: propURL},
	"homepage": {Property: propURL, Singleton: true, Key: propURL},

	"line":   {Property: propNote, NoteLabel: "Line ID"},
	"lineId": {Property: propNote, NoteLabel: "Line ID"},
	"lineID": {Property: propNote, NoteLabel: "Line ID"},

	"birthday":  {Property: propBday, Singleton: true, Key: propBday},
	"birthDate": {Property: propBday, Singleton: true, Key: propBday},

	"department": {Property: propNote, NoteLabel: "Department"},
	"dept":       {Property: propNote, NoteLabel: "Department"},

	"office":         {Property: propNote, NoteLabel: "Office"},
	"officeLocation": {Property: propNote, NoteLabel: "Office"},
}

// socialPlatforms is the fixed back-fill order for social_links, so output
// stays deterministic regardless of map iteration.
var socialPlatforms = []string{"linkedin", "facebook", "twitter", "instagram"}

// Value-shape sniffing applies only to elements with no tag at all.
// Tagged-but-unrecognized elements always fall through to a labeled NOTE.
var (
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// classify resolves an element tag to its emission rule. The second return
// is false when the tag is unrecognized (or blank) and the caller must apply
// the default policy.
func classify(field string) (emission, bool) {
	rule, ok := fieldRules[field]
	return rule, ok
}
