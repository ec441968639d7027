package render

import (
	"fmt"
	"net/url"
	"strings"

	"riskprotocol/internal/protocol"
)

// ShareMessage is the abbreviated rendering sized for a messaging
// channel: date, level, category, description and numbered immediate
// actions. Labels use the single-asterisk bold of the chat target;
// the record's own **emphasis** markup is stripped.
func ShareMessage(rec *protocol.Record) string {
	var b strings.Builder
	b.WriteString("*ALERTA DE SEGURANÇA*\n\n")
	fmt.Fprintf(&b, "*Data:* %s\n", rec.CreatedAtShort())
	fmt.Fprintf(&b, "*Nível:* %s\n", rec.Level)
	fmt.Fprintf(&b, "*Categoria:* %s\n\n", rec.Category)
	fmt.Fprintf(&b, "*Ocorrência:*\n%s\n\n", StripEmphasis(rec.TechnicalDescription))
	b.WriteString("*Ações Imediatas:*\n")
	for i, action := range rec.ImmediateActions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, StripEmphasis(action))
	}
	return strings.TrimSpace(b.String())
}

// ShareLink builds the wa.me deep link with the message percent-encoded.
// The number is the bare target without '+' or separators.
func ShareLink(rec *protocol.Record, number string) string {
	return "https://wa.me/" + number + "?text=" + encodeComponent(ShareMessage(rec))
}

// encodeComponent percent-encodes like encodeURIComponent: QueryEscape,
// but spaces as %20 rather than '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
