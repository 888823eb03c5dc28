package docmerger

import "testing"

func testWorkbook() *Workbook {
	return &Workbook{
		RecordHeaders:  []string{"Name", "City"},
		DefaultHeaders: []string{"City", "Company"},
		DefaultValues:  []string{"London", "Acme"},
	}
}

func TestFilter_EmptyMatchesAll(t *testing.T) {
	f, err := CompileFilter("  ")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ok, err := f.Match("1", testWorkbook(), []string{"Ada", "Paris"})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestFilter_RecordOverridesDefault(t *testing.T) {
	f, err := CompileFilter(`City == "Paris"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	// поле записи перекрывает значение по умолчанию
	ok, err := f.Match("1", testWorkbook(), []string{"Ada", "Paris"})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	ok, err = f.Match("2", testWorkbook(), []string{"Bob", "Berlin"})
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestFilter_SeesIDAndDefaults(t *testing.T) {
	f, err := CompileFilter(`ID == "7" && Company == "Acme"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ok, err := f.Match("7", testWorkbook(), []string{"Ada", ""})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestFilter_Errors(t *testing.T) {
	if _, err := CompileFilter(`City ==`); err == nil {
		t.Fatalf("ожидалась ошибка компиляции")
	}
	f, err := CompileFilter(`City`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	// выражение обязано возвращать bool
	if _, err := f.Match("1", testWorkbook(), []string{"Ada", "Paris"}); err == nil {
		t.Fatalf("ожидалась ошибка типа результата")
	}
}
