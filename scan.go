package docmerger

import (
	"strings"

	"github.com/nikitaxru/docmerger/docx"
)

// FullText собирает весь текст шаблона в один блок: верхние колонтитулы,
// нижние колонтитулы, затем тело (абзацы в порядке документа, абзацы
// ячеек таблиц построчно). Сегменты разделяются переводом строки.
func FullText(doc *docx.Document) string {
	var segs []string
	for _, r := range doc.Headers() {
		segs = collectText(segs, r)
	}
	for _, r := range doc.Footers() {
		segs = collectText(segs, r)
	}
	segs = collectText(segs, doc.Body())
	return strings.Join(segs, "\n")
}

func collectText(segs []string, r *docx.Region) []string {
	for _, p := range r.AllParagraphs() {
		segs = append(segs, p.Text())
	}
	return segs
}

// Validate возвращает имена, чья токен-форма не встречается в тексте
// шаблона. Это диагностика для оператора: отсутствие токена не ошибка,
// просто значение некуда подставить.
func Validate(fullText string, names ...string) []string {
	var missing []string
	for _, n := range names {
		if n == "" {
			continue
		}
		if !strings.Contains(fullText, Token(n)) {
			missing = append(missing, n)
		}
	}
	return missing
}
