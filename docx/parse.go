package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Разбор частей ведётся токенами encoding/xml, но нераспознанные поддеревья
// не декодируются: по смещениям декодера (InputOffset) из исходных байтов
// вырезается дословный фрагмент. Так пережившие разбор элементы
// не страдают от пересериализации пространств имён.

// parsePart находит контейнер блочного содержимого (body/hdr/ftr)
// и разбирает его. prefix и suffix покрывают всё вне содержимого.
func parsePart(data []byte, container string) (*part, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("элемент %s не найден", container)
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local == container {
			p := &part{prefix: data[:d.InputOffset()]}
			reg, suffixStart, err := parseBlocks(d, data, container)
			if err != nil {
				return nil, err
			}
			p.region = reg
			p.suffix = data[suffixStart:]
			return p, nil
		}
		if container == "body" && se.Name.Local == "document" {
			// содержимое document.xml лежит уровнем ниже
			continue
		}
		if err := d.Skip(); err != nil {
			return nil, err
		}
	}
}

// parseBlocks читает блочный поток до закрывающего тега контейнера.
// Возвращает регион и смещение начала закрывающего тега.
func parseBlocks(d *xml.Decoder, data []byte, container string) (*Region, int64, error) {
	reg := &Region{}
	for {
		tokStart := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para, err := parseParagraph(d, data, data[tokStart:d.InputOffset()])
				if err != nil {
					return nil, 0, err
				}
				reg.children = append(reg.children, blockChild{block: para})
			case "tbl":
				tbl, err := parseTable(d, data, data[tokStart:d.InputOffset()])
				if err != nil {
					return nil, 0, err
				}
				reg.children = append(reg.children, blockChild{block: tbl})
			default:
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, 0, err
				}
				reg.children = append(reg.children, blockChild{raw: raw})
			}
		case xml.EndElement:
			if t.Name.Local == container {
				return reg, tokStart, nil
			}
		}
	}
}

// rawChunk пропускает текущее поддерево и возвращает его исходные байты.
func rawChunk(d *xml.Decoder, data []byte, start int64) ([]byte, error) {
	if err := d.Skip(); err != nil {
		return nil, err
	}
	return data[start:d.InputOffset()], nil
}

// Открывающие теги p/r/tbl/tr/tc сохраняются дословно: ревизионные
// атрибуты (w:rsidR, w14:paraId) переживают сериализацию.
func parseParagraph(d *xml.Decoder, data []byte, start []byte) (*Paragraph, error) {
	p := &Paragraph{start: start}
	for {
		tokStart := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, err
				}
				p.props = raw
				p.align = extractAlign(raw)
			case "r":
				r, err := parseRun(d, data, data[tokStart:d.InputOffset()])
				if err != nil {
					return nil, err
				}
				p.children = append(p.children, paraChild{run: r})
			default:
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, err
				}
				p.children = append(p.children, paraChild{raw: raw})
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return p, nil
			}
		}
	}
}

func parseRun(d *xml.Decoder, data []byte, start []byte) (*Run, error) {
	r := &Run{start: start}
	for {
		tokStart := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, err
				}
				r.props = raw
				r.parseProps()
			case "t":
				text, err := decodeText(d)
				if err != nil {
					return nil, err
				}
				r.items = append(r.items, runItem{text: text})
			default:
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, err
				}
				r.items = append(r.items, runItem{raw: raw})
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return r, nil
			}
		}
	}
}

// decodeText собирает символьные данные до закрытия w:t.
func decodeText(d *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

func parseTable(d *xml.Decoder, data []byte, start []byte) (*Table, error) {
	t := &Table{start: start}
	for {
		tokStart := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch tt := tok.(type) {
		case xml.StartElement:
			switch tt.Name.Local {
			case "tr":
				row, err := parseRow(d, data, data[tokStart:d.InputOffset()])
				if err != nil {
					return nil, err
				}
				t.children = append(t.children, tblChild{row: row})
			default:
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, err
				}
				t.children = append(t.children, tblChild{raw: raw})
			}
		case xml.EndElement:
			if tt.Name.Local == "tbl" {
				return t, nil
			}
		}
	}
}

func parseRow(d *xml.Decoder, data []byte, start []byte) (*TableRow, error) {
	row := &TableRow{start: start}
	for {
		tokStart := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tc":
				cell := &TableCell{start: data[tokStart:d.InputOffset()]}
				reg, _, err := parseBlocks(d, data, "tc")
				if err != nil {
					return nil, err
				}
				cell.children = reg.children
				row.children = append(row.children, rowChild{cell: cell})
			default:
				raw, err := rawChunk(d, data, tokStart)
				if err != nil {
					return nil, err
				}
				row.children = append(row.children, rowChild{raw: raw})
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return row, nil
			}
		}
	}
}

// extractAlign вытаскивает значение w:jc из сырого w:pPr.
func extractAlign(props []byte) string {
	d := xml.NewDecoder(bytes.NewReader(props))
	for {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local == "jc" {
			for _, a := range se.Attr {
				if a.Name.Local == "val" {
					return a.Value
				}
			}
			return ""
		}
	}
}

// parseProps разбирает шрифтовые свойства из сырого w:rPr.
func (r *Run) parseProps() {
	d := xml.NewDecoder(bytes.NewReader(r.props))
	for {
		tok, err := d.Token()
		if err != nil {
			return
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "rFonts":
			for _, a := range se.Attr {
				if a.Name.Local == "ascii" && a.Value != "" {
					r.font = a.Value
				}
			}
		case "sz":
			for _, a := range se.Attr {
				if a.Name.Local == "val" {
					if v, err := strconv.ParseFloat(a.Value, 64); err == nil && v > 0 {
						r.size = v / 2 // w:sz хранит полупункты
					}
				}
			}
		case "color":
			for _, a := range se.Attr {
				if a.Name.Local == "val" && a.Value != "auto" {
					if c, ok := parseHexColor(a.Value); ok {
						r.color, r.hasColor = c, true
					}
				}
			}
		}
	}
}

func parseHexColor(s string) (Color, bool) {
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}
