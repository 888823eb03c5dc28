package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Сериализация собирает часть вручную: известные элементы пишутся
// литеральными тегами с префиксом w:, сырые фрагменты — как есть.
// encoding/xml для вывода не используется: его обращение с префиксами
// пространств имён ломает OOXML.

func (p *part) bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(len(p.prefix) + len(p.suffix) + 1024)
	buf.Write(p.prefix)
	writeChildren(&buf, p.region.children)
	buf.Write(p.suffix)
	return buf.Bytes()
}

func writeChildren(buf *bytes.Buffer, children []blockChild) {
	for _, c := range children {
		if c.raw != nil {
			buf.Write(c.raw)
			continue
		}
		switch b := c.block.(type) {
		case *Paragraph:
			writeParagraph(buf, b)
		case *Table:
			writeTable(buf, b)
		}
	}
}

// writeStart пишет исходный открывающий тег элемента, раскрывая
// самозакрытую форму, либо fallback для элементов, созданных с нуля.
func writeStart(buf *bytes.Buffer, start []byte, fallback string) {
	if len(start) == 0 {
		buf.WriteString(fallback)
		return
	}
	if bytes.HasSuffix(start, []byte("/>")) {
		buf.Write(start[:len(start)-2])
		buf.WriteByte('>')
		return
	}
	buf.Write(start)
}

func writeParagraph(buf *bytes.Buffer, p *Paragraph) {
	writeStart(buf, p.start, "<w:p>")
	buf.Write(p.props)
	for _, c := range p.children {
		if c.raw != nil {
			buf.Write(c.raw)
			continue
		}
		writeRun(buf, c.run)
	}
	buf.WriteString("</w:p>")
}

func writeRun(buf *bytes.Buffer, r *Run) {
	writeStart(buf, r.start, "<w:r>")
	buf.Write(r.props)
	for _, it := range r.items {
		if it.raw != nil {
			buf.Write(it.raw)
			continue
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(buf, []byte(it.text))
		buf.WriteString("</w:t>")
	}
	buf.WriteString("</w:r>")
}

func writeTable(buf *bytes.Buffer, t *Table) {
	writeStart(buf, t.start, "<w:tbl>")
	for _, c := range t.children {
		if c.raw != nil {
			buf.Write(c.raw)
			continue
		}
		writeRow(buf, c.row)
	}
	buf.WriteString("</w:tbl>")
}

func writeRow(buf *bytes.Buffer, row *TableRow) {
	writeStart(buf, row.start, "<w:tr>")
	for _, c := range row.children {
		if c.raw != nil {
			buf.Write(c.raw)
			continue
		}
		writeStart(buf, c.cell.start, "<w:tc>")
		writeChildren(buf, c.cell.children)
		buf.WriteString("</w:tc>")
	}
	buf.WriteString("</w:tr>")
}

// buildRunProps собирает w:rPr для формата перезаписи.
// Порядок дочерних элементов соответствует схеме: rFonts, color, sz, szCs.
func buildRunProps(f RunFormat) []byte {
	if f.Font == "" && f.Size == 0 && f.Color == nil {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteString("<w:rPr>")
	if f.Font != "" {
		buf.WriteString(`<w:rFonts w:ascii="`)
		_ = xml.EscapeText(&buf, []byte(f.Font))
		buf.WriteString(`" w:hAnsi="`)
		_ = xml.EscapeText(&buf, []byte(f.Font))
		buf.WriteString(`"/>`)
	}
	if f.Color != nil {
		fmt.Fprintf(&buf, `<w:color w:val="%02X%02X%02X"/>`, f.Color.R, f.Color.G, f.Color.B)
	}
	if f.Size > 0 {
		half := int(f.Size*2 + 0.5)
		fmt.Fprintf(&buf, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, half, half)
	}
	buf.WriteString("</w:rPr>")
	return buf.Bytes()
}
