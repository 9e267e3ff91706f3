package vcard

import "strings"

// escapeValue escapes the vCard-reserved characters per RFC 6350 §3.4.
// Backslash first, then separators; embedded line breaks become literal \n
// sequences so the document stays line-oriented.
var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\r", `\n`,
	"\n", `\n`,
)

func escapeValue(s string) string {
	return valueEscaper.Replace(s)
}
