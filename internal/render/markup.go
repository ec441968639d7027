// Package render holds the pure renderings of a protocol record: full
// text for the clipboard and cloud upload, the abbreviated share message
// with its deep link, the quick-summary fragments, and the paginated PDF
// export. Same record in, byte-identical output out.
package render

import (
	"regexp"
	"strings"
)

var emphasisRe = regexp.MustCompile(`\*\*(.*?)\*\*`)

var angleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// StripEmphasis removes the lightweight **bold** markup for renderings
// that cannot apply inline styling.
func StripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// EmphasisHTML converts **text** into a bold span. Literal angle brackets
// and ampersands are neutralized first, so model-controlled text can never
// smuggle executable markup into the page.
func EmphasisHTML(s string) string {
	return emphasisRe.ReplaceAllString(angleEscaper.Replace(s), "<strong>$1</strong>")
}
