package render

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-pdf/fpdf"

	"riskprotocol/internal/protocol"
)

// ErrExport marks a failure while laying out or emitting the PDF. The
// caller logs it and the export silently does not complete; no local
// state is touched.
var ErrExport = errors.New("falha ao exportar documento")

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SafeName replaces every non-alphanumeric character with a separator,
// for file names derived from category values like "Emergência/Evasão".
func SafeName(s string) string {
	return unsafeNameRe.ReplaceAllString(s, "-")
}

// A4 portrait layout constants, in millimeters.
const (
	pdfMargin       = 15.0
	pdfTop          = 20.0
	pdfLine         = 7.0
	pdfHeadingBreak = 270.0
	pdfBlockBreak   = 280.0
)

type listStyle int

const (
	listNone listStyle = iota
	listDecimal
	listBullet
)

// PDF renders the record as a paginated A4 document and returns the
// bytes together with the download name (category plus the given date).
// Emphasis markup is stripped; this rendering has no inline styling.
func PDF(rec *protocol.Record, now time.Time) ([]byte, string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := doc.GetPageSize()
	usable := pageWidth - 2*pdfMargin
	doc.AddPage()
	y := pdfTop

	title := "Protocolo de Risco Hospitalar"
	doc.SetFont("Helvetica", "B", 16)
	doc.Text((pageWidth-doc.GetStringWidth(tr(title)))/2, y, tr(title))
	y += pdfLine * 2

	addSection := func(heading string, content []string, style listStyle) {
		if y > pdfHeadingBreak {
			doc.AddPage()
			y = pdfTop
		}
		doc.SetFont("Helvetica", "B", 12)
		doc.Text(pdfMargin, y, tr(heading))
		y += pdfLine

		doc.SetFont("Helvetica", "", 10)
		indent := 0.0
		if style != listNone {
			indent = 4.0
		}
		for i, item := range content {
			full := StripEmphasis(item)
			switch style {
			case listDecimal:
				full = fmt.Sprintf("%d. %s", i+1, full)
			case listBullet:
				full = "• " + full
			}
			lines := doc.SplitText(tr(full), usable-indent)
			if y+float64(len(lines))*(pdfLine-2) > pdfBlockBreak {
				doc.AddPage()
				y = pdfTop
			}
			for _, ln := range lines {
				doc.Text(pdfMargin+indent, y, ln)
				y += pdfLine - 2
			}
			if style != listNone {
				y += 2 // space between list items
			}
		}
		y += pdfLine
	}

	addSection("Data de Geração:", []string{rec.CreatedAtShort()}, listNone)
	addSection("Nível de Risco:", []string{string(rec.Level)}, listNone)
	addSection("Categoria:", []string{string(rec.Category)}, listNone)
	addSection("Relato Informal Original:", []string{"\"" + rec.InformalReport + "\""}, listNone)
	addSection("Descrição Técnica da Ocorrência:", []string{rec.TechnicalDescription}, listNone)
	addSection("Ações Imediatas:", rec.ImmediateActions, listDecimal)
	addSection("Setor Responsável:", []string{rec.ResponsibleSector}, listNone)
	addSection("Plano de Comunicação:", []string{rec.CommunicationPlan}, listNone)
	addSection("Medidas Preventivas Recomendadas:", rec.PreventiveMeasures, listBullet)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	name := fmt.Sprintf("Protocolo_%s_%s.pdf", SafeName(string(rec.Category)), now.Format("2006-01-02"))
	return buf.Bytes(), name, nil
}
