package docmerger

import (
	"strings"

	"github.com/nikitaxru/docmerger/docx"
)

// FillDocument подставляет значения одной записи во все абзацы документа:
// колонтитулы, тело и каждую ячейку таблиц. Документ меняется на месте,
// поэтому на каждую запись нужен свежезагруженный экземпляр шаблона.
func FillDocument(doc *docx.Document, id string, recHeaders, recValues, defHeaders, defValues []string) {
	for _, reg := range regions(doc) {
		for _, p := range reg.AllParagraphs() {
			fillParagraph(p, id, recHeaders, recValues, defHeaders, defValues)
		}
	}
}

func regions(doc *docx.Document) []*docx.Region {
	regs := append([]*docx.Region{}, doc.Headers()...)
	regs = append(regs, doc.Footers()...)
	return append(regs, doc.Body())
}

// fillParagraph переписывает один абзац. Перезапись разрушающая: все run
// абзаца заменяются одним с форматом первого исходного run, границы
// форматирования внутри абзаца теряются. Это осознанное упрощение,
// а не дефект: потребители рассчитывают на однородные абзацы на выходе.
func fillParagraph(p *docx.Paragraph, id string, recHeaders, recValues, defHeaders, defValues []string) {
	text := p.Text()
	if strings.TrimSpace(text) == "" {
		// пустой абзац не трогаем, чтобы не разрушать пустые run с форматом
		return
	}
	f := captureFormat(p)
	p.Rewrite(Substitute(text, id, recHeaders, recValues, defHeaders, defValues), f)
}

// captureFormat снимает формат с первого run абзаца: шрифт, кегль, цвет.
// Отсутствующий цвет трактуется как чёрный. Если run нет вовсе,
// возвращается пустой формат и свойства не применяются.
func captureFormat(p *docx.Paragraph) docx.RunFormat {
	runs := p.Runs()
	if len(runs) == 0 {
		return docx.RunFormat{}
	}
	r := runs[0]
	f := docx.RunFormat{Font: r.Font(), Size: r.Size()}
	c := docx.Color{} // чёрный
	if cc, ok := r.Color(); ok {
		c = cc
	}
	f.Color = &c
	return f
}
