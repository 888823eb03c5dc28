package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Минимальный кодек WordprocessingML (.docx) для движка подстановки.
// Моделируются только текстонесущие элементы: абзацы, run'ы с их шрифтовыми
// свойствами и таблицы — в теле документа и в колонтитулах. Всё остальное
// (sectPr, закладки, рисунки и т.д.) сохраняется как сырые байты исходного
// XML и при записи воспроизводится дословно.

// Color — цвет RGB.
type Color struct {
	R, G, B uint8
}

// RunFormat — формат единственного run, создаваемого при перезаписи абзаца.
// Нулевые значения полей означают «не задавать».
type RunFormat struct {
	Font  string  // имя шрифта (w:rFonts)
	Size  float64 // кегль в пунктах (w:sz хранит полупункты)
	Color *Color  // nil — цвет не задаётся
}

// Block — элемент потока документа: абзац или таблица.
type Block interface {
	isBlock()
}

func (*Paragraph) isBlock() {}
func (*Table) isBlock()     {}

// blockChild — дочерний элемент блочного контейнера: распознанный блок
// либо сырой фрагмент XML, сохраняемый как есть.
type blockChild struct {
	block Block
	raw   []byte
}

// Region — упорядоченный блочный контейнер: тело документа либо один
// верхний или нижний колонтитул.
type Region struct {
	children []blockChild
}

// Blocks возвращает распознанные блоки региона в порядке документа.
func (r *Region) Blocks() []Block {
	var out []Block
	for _, c := range r.children {
		if c.block != nil {
			out = append(out, c.block)
		}
	}
	return out
}

// AllParagraphs возвращает все абзацы региона: сначала верхнеуровневые
// абзацы в порядке документа, затем абзацы ячеек таблиц построчно.
func (r *Region) AllParagraphs() []*Paragraph {
	return appendParagraphs(nil, r.children)
}

func appendParagraphs(out []*Paragraph, children []blockChild) []*Paragraph {
	var tables []*Table
	for _, c := range children {
		switch b := c.block.(type) {
		case *Paragraph:
			out = append(out, b)
		case *Table:
			tables = append(tables, b)
		}
	}
	for _, t := range tables {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				out = appendParagraphs(out, cell.children)
			}
		}
	}
	return out
}

// paraChild — дочерний элемент абзаца: run либо сырой фрагмент.
type paraChild struct {
	run *Run
	raw []byte
}

// Paragraph — абзац (w:p). Открывающий тег (с атрибутами вроде w:rsidR)
// и свойства абзаца (w:pPr) хранятся сырыми байтами и переживают
// перезапись, поэтому выравнивание и отступы не теряются.
type Paragraph struct {
	start    []byte
	props    []byte
	align    string
	children []paraChild
}

// Text возвращает сцепленный текст всех run абзаца.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, c := range p.children {
		if c.run != nil {
			sb.WriteString(c.run.Text())
		}
	}
	return sb.String()
}

// Alignment возвращает значение w:jc абзаца ("center", "right", "both", ...)
// или пустую строку, если выравнивание не задано.
func (p *Paragraph) Alignment() string { return p.align }

// Runs возвращает run'ы абзаца в порядке следования.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.children {
		if c.run != nil {
			out = append(out, c.run)
		}
	}
	return out
}

// Rewrite заменяет всё содержимое абзаца одним run с заданным текстом и
// форматом. Свойства абзаца остаются прежними, прочие дочерние элементы
// (закладки и т.п.) отбрасываются.
func (p *Paragraph) Rewrite(text string, f RunFormat) {
	r := &Run{
		props: buildRunProps(f),
		items: []runItem{{text: text}},
		font:  f.Font,
		size:  f.Size,
	}
	if f.Color != nil {
		r.color, r.hasColor = *f.Color, true
	}
	p.children = []paraChild{{run: r}}
}

// runItem — фрагмент содержимого run: текст (raw == nil) либо сырой XML
// (разрывы строк, табуляции и прочее).
type runItem struct {
	text string
	raw  []byte
}

// Run — текстовый фрагмент абзаца (w:r) с его свойствами.
type Run struct {
	start    []byte
	props    []byte
	items    []runItem
	font     string
	size     float64
	color    Color
	hasColor bool
}

// Text возвращает сцепленный текст run (содержимое всех w:t).
func (r *Run) Text() string {
	var sb strings.Builder
	for _, it := range r.items {
		if it.raw == nil {
			sb.WriteString(it.text)
		}
	}
	return sb.String()
}

// Font возвращает имя шрифта (атрибут w:ascii элемента w:rFonts) или "".
func (r *Run) Font() string { return r.font }

// Size возвращает кегль в пунктах или 0, если он не задан.
func (r *Run) Size() float64 { return r.size }

// Color возвращает цвет текста. Второй результат false, если цвет
// не задан либо задан как "auto".
func (r *Run) Color() (Color, bool) { return r.color, r.hasColor }

// tblChild — дочерний элемент таблицы: строка либо сырой фрагмент
// (w:tblPr, w:tblGrid).
type tblChild struct {
	row *TableRow
	raw []byte
}

// Table — таблица (w:tbl).
type Table struct {
	start    []byte
	children []tblChild
}

// Rows возвращает строки таблицы.
func (t *Table) Rows() []*TableRow {
	var out []*TableRow
	for _, c := range t.children {
		if c.row != nil {
			out = append(out, c.row)
		}
	}
	return out
}

// rowChild — дочерний элемент строки: ячейка либо сырой фрагмент (w:trPr).
type rowChild struct {
	cell *TableCell
	raw  []byte
}

// TableRow — строка таблицы (w:tr).
type TableRow struct {
	start    []byte
	children []rowChild
}

// Cells возвращает ячейки строки.
func (tr *TableRow) Cells() []*TableCell {
	var out []*TableCell
	for _, c := range tr.children {
		if c.cell != nil {
			out = append(out, c.cell)
		}
	}
	return out
}

// TableCell — ячейка таблицы (w:tc). Содержимое ячейки — тот же блочный
// поток, что и тело документа (абзацы, вложенные таблицы).
type TableCell struct {
	start    []byte
	children []blockChild
}

// Blocks возвращает распознанные блоки ячейки.
func (c *TableCell) Blocks() []Block {
	var out []Block
	for _, ch := range c.children {
		if ch.block != nil {
			out = append(out, ch.block)
		}
	}
	return out
}

// Text возвращает текст верхнеуровневых абзацев ячейки через пробел.
func (c *TableCell) Text() string {
	var parts []string
	for _, ch := range c.children {
		if p, ok := ch.block.(*Paragraph); ok {
			parts = append(parts, p.Text())
		}
	}
	return strings.Join(parts, " ")
}

// part — одна XML-часть пакета: word/document.xml или колонтитул.
// prefix и suffix — дословные байты документа до и после блочного
// содержимого контейнера (включая сам открывающий/закрывающий тег).
type part struct {
	name   string
	prefix []byte
	suffix []byte
	region *Region
}

// zipEntry — файл пакета docx в исходном порядке.
type zipEntry struct {
	name string
	data []byte
}

// Document — открытый пакет docx. Части, не затронутые моделью,
// переносятся в результат без изменений.
type Document struct {
	entries []zipEntry
	parts   map[string]*part
	body    *part
	headers []*part
	footers []*part
}

var (
	rxHeaderPart = regexp.MustCompile(`^word/header\d*\.xml$`)
	rxFooterPart = regexp.MustCompile(`^word/footer\d*\.xml$`)
)

// Open читает docx с диска и разбирает тело и колонтитулы.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return OpenReader(f, st.Size())
}

// OpenReader читает docx из произвольного источника.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	doc := &Document{parts: map[string]*part{}}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", zf.Name, err)
		}
		doc.entries = append(doc.entries, zipEntry{name: zf.Name, data: data})
	}
	if err := doc.parseParts(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) parseParts() error {
	for _, e := range d.entries {
		var (
			p    *part
			err  error
			kind int // 0 — тело, 1 — верхний колонтитул, 2 — нижний
		)
		switch {
		case e.name == "word/document.xml":
			p, err = parsePart(e.data, "body")
		case rxHeaderPart.MatchString(e.name):
			p, err = parsePart(e.data, "hdr")
			kind = 1
		case rxFooterPart.MatchString(e.name):
			p, err = parsePart(e.data, "ftr")
			kind = 2
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("разбор %s: %w", e.name, err)
		}
		p.name = e.name
		d.parts[e.name] = p
		switch kind {
		case 0:
			d.body = p
		case 1:
			d.headers = append(d.headers, p)
		case 2:
			d.footers = append(d.footers, p)
		}
	}
	if d.body == nil {
		return fmt.Errorf("не docx: отсутствует word/document.xml")
	}
	sortParts(d.headers)
	sortParts(d.footers)
	return nil
}

var rxPartIndex = regexp.MustCompile(`\d+`)

// sortParts упорядочивает колонтитулы по числовому индексу части:
// header2.xml идёт раньше header10.xml.
func sortParts(parts []*part) {
	sort.Slice(parts, func(i, j int) bool {
		a, b := partIndex(parts[i].name), partIndex(parts[j].name)
		if a != b {
			return a < b
		}
		return parts[i].name < parts[j].name
	})
}

func partIndex(name string) int {
	m := rxPartIndex.FindString(name)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// Body возвращает регион тела документа.
func (d *Document) Body() *Region { return d.body.region }

// Headers возвращает регионы верхних колонтитулов (по имени части).
func (d *Document) Headers() []*Region { return partRegions(d.headers) }

// Footers возвращает регионы нижних колонтитулов (по имени части).
func (d *Document) Footers() []*Region { return partRegions(d.footers) }

func partRegions(parts []*part) []*Region {
	out := make([]*Region, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.region)
	}
	return out
}

// Write сериализует пакет. Изменённые части пересобираются,
// остальные файлы копируются байт в байт.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range d.entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			return err
		}
		data := e.data
		if p, ok := d.parts[e.name]; ok {
			data = p.bytes()
		}
		if _, err := fw.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Save записывает пакет в файл.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
