package docmerger

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Имена листов по умолчанию.
const (
	DefaultDataSheet     = "Data"
	DefaultDefaultsSheet = "Defaults"
)

// Workbook — нормализованные данные из Excel: заголовки полей записей,
// сами записи по идентификатору и таблица значений по умолчанию.
type Workbook struct {
	RecordHeaders  []string
	Records        map[string][]string
	DefaultHeaders []string
	DefaultValues  []string
}

// LoadWorkbook читает книгу с двумя листами: основной лист с записями
// (первая строка — заголовки, первая колонка — идентификатор) и лист
// значений по умолчанию (строка заголовков + строка значений).
//
// Строки без идентификатора молча пропускаются. Отсутствующие ячейки
// приводятся к пустой строке. Если заголовки и значения по умолчанию
// разной длины, короткий список дополняется пустыми строками.
func LoadWorkbook(path, dataSheet, defaultsSheet string) (*Workbook, error) {
	if dataSheet == "" {
		dataSheet = DefaultDataSheet
	}
	if defaultsSheet == "" {
		defaultsSheet = DefaultDefaultsSheet
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{Records: map[string][]string{}}

	rows, err := sheetRows(f, dataSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s не содержит строки заголовков", ErrEmptyTable, dataSheet)
	}
	header := rows[0]
	if len(header) > 1 {
		for _, h := range header[1:] {
			wb.RecordHeaders = append(wb.RecordHeaders, strings.TrimSpace(h))
		}
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			// строка без идентификатора — не ошибка
			continue
		}
		values := make([]string, len(wb.RecordHeaders))
		for i := range values {
			if i+1 < len(row) {
				values[i] = row[i+1]
			}
		}
		wb.Records[id] = values
	}

	defRows, err := sheetRows(f, defaultsSheet)
	if err != nil {
		return nil, err
	}
	if len(defRows) == 0 {
		return nil, fmt.Errorf("%w: %s не содержит строки заголовков", ErrEmptyTable, defaultsSheet)
	}
	if len(defRows) < 2 {
		return nil, fmt.Errorf("%w: %s не содержит строки значений", ErrEmptyTable, defaultsSheet)
	}
	for _, h := range defRows[0] {
		wb.DefaultHeaders = append(wb.DefaultHeaders, strings.TrimSpace(h))
	}
	wb.DefaultValues = append(wb.DefaultValues, defRows[1]...)
	wb.DefaultHeaders, wb.DefaultValues = padPair(wb.DefaultHeaders, wb.DefaultValues)

	return wb, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingSheet, sheet)
	}
	return f.GetRows(sheet)
}

// padPair выравнивает длины двух списков пустыми строками.
func padPair(a, b []string) ([]string, []string) {
	for len(a) < len(b) {
		a = append(a, "")
	}
	for len(b) < len(a) {
		b = append(b, "")
	}
	return a, b
}
