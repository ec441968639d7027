package render

import (
	"fmt"
	"strings"

	"riskprotocol/internal/protocol"
)

// noImmediateAction is what the quick summary shows for an empty action list.
const noImmediateAction = "Nenhuma ação imediata especificada."

// ProtocolText renders the full fixed-order protocol for the clipboard:
// date, level, category, original report, technical description, numbered
// immediate actions, responsible sector, communication plan, bulleted
// preventive measures. Emphasis markup is stripped.
func ProtocolText(rec *protocol.Record) string {
	return protocolText(rec, true)
}

// UploadText is the cloud-upload body: same sections minus the date line.
func UploadText(rec *protocol.Record) string {
	return protocolText(rec, false)
}

func protocolText(rec *protocol.Record, withDate bool) string {
	var b strings.Builder
	b.WriteString("*** PROTOCOLO DE RISCO ***\n\n")
	if withDate {
		fmt.Fprintf(&b, "DATA: %s\n", rec.CreatedAtShort())
	}
	fmt.Fprintf(&b, "NÍVEL: %s\n", rec.Level)
	fmt.Fprintf(&b, "CATEGORIA: %s\n\n", rec.Category)
	fmt.Fprintf(&b, "RELATO ORIGINAL:\n\"%s\"\n\n", rec.InformalReport)
	fmt.Fprintf(&b, "DESCRIÇÃO TÉCNICA:\n%s\n\n", StripEmphasis(rec.TechnicalDescription))
	b.WriteString("AÇÕES IMEDIATAS:\n")
	for i, action := range rec.ImmediateActions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, StripEmphasis(action))
	}
	fmt.Fprintf(&b, "\nSETOR RESPONSÁVEL:\n%s\n\n", rec.ResponsibleSector)
	fmt.Fprintf(&b, "PLANO DE COMUNICAÇÃO:\n%s\n\n", rec.CommunicationPlan)
	b.WriteString("MEDIDAS PREVENTIVAS:\n")
	for _, measure := range rec.PreventiveMeasures {
		fmt.Fprintf(&b, "- %s\n", StripEmphasis(measure))
	}
	return strings.TrimSpace(b.String())
}

// SummaryActionHTML is the "critical action" slot of the quick summary:
// the first immediate action as a sanitized emphasis span, or a fixed
// fallback sentence when the list is empty.
func SummaryActionHTML(rec *protocol.Record) string {
	if len(rec.ImmediateActions) == 0 {
		return noImmediateAction
	}
	return EmphasisHTML(rec.ImmediateActions[0])
}

// SummaryDescriptionHTML truncates the technical description for the
// quick view before applying the emphasis conversion.
func SummaryDescriptionHTML(rec *protocol.Record) string {
	desc := rec.TechnicalDescription
	if runes := []rune(desc); len(runes) > 150 {
		desc = string(runes[:150]) + "..."
	}
	return EmphasisHTML(desc)
}
