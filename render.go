package docmerger

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nikitaxru/docmerger/docx"
)

const (
	defaultFontSize = 11.0
	tableRowHeight  = 7.0
)

// RenderPDF превращает заполненный документ в PDF фиксированной разметки.
// Колонтитулы документа становятся колонтитулами страниц, абзацы тела
// выводятся с захваченным шрифтом, кеглем, цветом и выравниванием,
// таблицы — сеткой колонок равной ширины.
func RenderPDF(doc *docx.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetHeaderFunc(func() {
		for _, r := range doc.Headers() {
			for _, p := range r.AllParagraphs() {
				renderParagraph(pdf, tr, p)
			}
		}
		if len(doc.Headers()) > 0 {
			pdf.Ln(4)
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		for _, r := range doc.Footers() {
			for _, p := range r.AllParagraphs() {
				renderParagraph(pdf, tr, p)
			}
		}
	})
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	for _, b := range doc.Body().Blocks() {
		switch bb := b.(type) {
		case *docx.Paragraph:
			renderParagraph(pdf, tr, bb)
		case *docx.Table:
			renderTable(pdf, tr, bb)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderParagraph(pdf *fpdf.Fpdf, tr func(string) string, p *docx.Paragraph) {
	text := p.Text()
	f := captureFormat(p)
	size := f.Size
	if size == 0 {
		size = defaultFontSize
	}
	pdf.SetFont(pdfFont(f.Font), "", size)
	if f.Color != nil {
		pdf.SetTextColor(int(f.Color.R), int(f.Color.G), int(f.Color.B))
	} else {
		pdf.SetTextColor(0, 0, 0)
	}
	lineH := size * 0.5
	if strings.TrimSpace(text) == "" {
		pdf.Ln(lineH)
		return
	}
	pdf.MultiCell(0, lineH, tr(text), "", pdfAlign(p.Alignment()), false)
}

func renderTable(pdf *fpdf.Fpdf, tr func(string) string, t *docx.Table) {
	rows := t.Rows()
	cols := 0
	for _, row := range rows {
		if n := len(row.Cells()); n > cols {
			cols = n
		}
	}
	if cols == 0 {
		return
	}
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	cellW := (pageW - left - right) / float64(cols)
	pdf.SetFont("Helvetica", "", defaultFontSize)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for _, cell := range row.Cells() {
			pdf.CellFormat(cellW, tableRowHeight, tr(cell.Text()), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

// pdfFont отображает имя шрифта документа на одно из встроенных семейств PDF.
func pdfFont(family string) string {
	switch f := strings.ToLower(family); {
	case strings.Contains(f, "times"):
		return "Times"
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	default:
		return "Helvetica"
	}
}

func pdfAlign(jc string) string {
	switch jc {
	case "center":
		return "C"
	case "right", "end":
		return "R"
	case "both", "distribute":
		return "J"
	default:
		return "L"
	}
}
