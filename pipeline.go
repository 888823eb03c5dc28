package docmerger

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikitaxru/docmerger/docx"
)

// Конвейер генерации документов: один раз читаем данные и проверяем
// покрытие токенов, затем для каждой записи загружаем свежий шаблон,
// подставляем значения и сохраняем PDF под именем записи.

// Config — настройки генерации. Пути передаются явно, никаких
// глобальных значений.
type Config struct {
	SpreadsheetPath string // книга Excel с данными
	TemplatePath    string // шаблон .docx
	OutputDir       string // каталог для PDF, создаётся при необходимости

	DataSheet     string // имя листа записей, по умолчанию Data
	DefaultsSheet string // имя листа значений по умолчанию, по умолчанию Defaults
	Filter        string // необязательное выражение отбора записей
	FailFast      bool   // остановить пакет на первой ошибке записи
}

// Result — итог прогона.
type Result struct {
	Generated int      // записей с готовым PDF
	Skipped   int      // записей, отсеянных фильтром
	Failed    int      // записей с ошибкой
	Missing   []string // имена полей без токена в шаблоне
	Errors    []error  // ошибки по записям (при FailFast — не больше одной)
}

// Generate выполняет полный цикл генерации. Ошибка возвращается при
// структурных дефектах входа (ErrMissingSheet, ErrEmptyTable и т.п.)
// и, при FailFast, при первой ошибке записи; иначе ошибки записей
// копятся в Result.Errors.
func Generate(cfg Config) (*Result, error) {
	start := time.Now()
	log.Printf("📊 Данные: %s", cfg.SpreadsheetPath)
	log.Printf("📄 Шаблон: %s", cfg.TemplatePath)

	wb, err := LoadWorkbook(cfg.SpreadsheetPath, cfg.DataSheet, cfg.DefaultsSheet)
	if err != nil {
		return nil, err
	}
	log.Printf("📝 Записей: %d, полей: %d, значений по умолчанию: %d",
		len(wb.Records), len(wb.RecordHeaders), len(wb.DefaultHeaders))

	flt, err := CompileFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}

	// проверка покрытия токенов — один раз, по отдельному экземпляру шаблона
	tpl, err := docx.Open(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	expected := append([]string{IDHeader}, wb.RecordHeaders...)
	expected = append(expected, wb.DefaultHeaders...)
	res.Missing = Validate(FullText(tpl), expected...)
	for _, name := range res.Missing {
		log.Printf("⚠️ Токен %s не найден в шаблоне", Token(name))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	for id, values := range wb.Records {
		ok, err := flt.Match(id, wb, values)
		if err == nil && !ok {
			res.Skipped++
			continue
		}
		if err == nil {
			err = generateOne(cfg, wb, id, values)
		}
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			log.Printf("❌ Запись %s: %v", id, err)
			if cfg.FailFast {
				return res, err
			}
			continue
		}
		res.Generated++
	}

	log.Printf("✅ Готово за %v: %d создано, %d пропущено, %d с ошибками",
		time.Since(start).Round(time.Millisecond), res.Generated, res.Skipped, res.Failed)
	return res, nil
}

// generateOne обрабатывает одну запись: свежая загрузка шаблона,
// подстановка, рендер PDF и сохранение.
func generateOne(cfg Config, wb *Workbook, id string, values []string) error {
	doc, err := docx.Open(cfg.TemplatePath)
	if err != nil {
		return &DocumentError{ID: id, Err: err}
	}
	FillDocument(doc, id, wb.RecordHeaders, values, wb.DefaultHeaders, wb.DefaultValues)
	for _, name := range Unresolved(FullText(doc)) {
		log.Printf("⚠️ Запись %s: токен %s остался без значения", id, Token(name))
	}
	pdf, err := RenderPDF(doc)
	if err != nil {
		return &DocumentError{ID: id, Err: err}
	}
	return writeArtifact(filepath.Join(cfg.OutputDir, artifactName(id)), pdf, id)
}

// artifactName строит детерминированное имя файла по идентификатору.
// Разделители путей заменяются, чтобы запись не могла выйти из каталога.
func artifactName(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '_'
		}
		return r
	}, id)
	return safe + ".pdf"
}

// writeArtifact сохраняет байты через временный файл и переименование.
// Неудачная уборка временного файла логируется, но не считается ошибкой.
func writeArtifact(path string, data []byte, id string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &PersistError{ID: id, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			log.Printf("⚠️ Не удалён временный файл %s: %v", tmp, rmErr)
		}
		return &PersistError{ID: id, Err: err}
	}
	return nil
}
