package docmerger_test

import (
	"archive/zip"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Сборка фикстур на месте: книга Excel через excelize, шаблон docx —
// минимальный zip с готовыми фрагментами WordprocessingML.

const docNS = ` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

var xmlEsc = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// paraXML — простой абзац с одним run без свойств.
func paraXML(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + xmlEsc.Replace(text) + `</w:t></w:r></w:p>`
}

// writeDocx собирает docx из блочного XML тела и (опционально) абзацев
// колонтитулов. Пустая строка — часть не создаётся.
func writeDocx(t *testing.T, path, bodyXML, headerXML, footerXML string) {
	t.Helper()
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document` + docNS + `><w:body>` + bodyXML + `<w:sectPr/></w:body></w:document>`,
	}
	if headerXML != "" {
		files["word/header1.xml"] = `<?xml version="1.0"?><w:hdr` + docNS + `>` + headerXML + `</w:hdr>`
	}
	if footerXML != "" {
		files["word/footer1.xml"] = `<?xml version="1.0"?><w:ftr` + docNS + `>` + footerXML + `</w:ftr>`
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

// writeWorkbook собирает книгу с листами Data и Defaults из готовых строк.
// nil вместо строк — лист не создаётся вовсе.
func writeWorkbook(t *testing.T, path string, dataRows, defaultRows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	created := false
	if dataRows != nil {
		f.SetSheetName("Sheet1", "Data")
		created = true
		for i, row := range dataRows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow("Data", cell, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if defaultRows != nil {
		if !created {
			f.SetSheetName("Sheet1", "Defaults")
		} else if _, err := f.NewSheet("Defaults"); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, row := range defaultRows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow("Defaults", cell, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}
