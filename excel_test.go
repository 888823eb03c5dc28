package docmerger_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	docmerger "github.com/nikitaxru/docmerger"
)

// WorkbookSuite — сьют тестов чтения книги с данными
type WorkbookSuite struct {
	suite.Suite
	dir string
}

func (s *WorkbookSuite) SetupTest() { s.dir = s.T().TempDir() }

// Runner
func TestWorkbookSuite(t *testing.T) {
	suite.Run(t, new(WorkbookSuite))
}

func (s *WorkbookSuite) path(name string) string { return filepath.Join(s.dir, name) }

// TestLoadBasics — заголовки без колонки ID, записи по идентификатору,
// отсутствующие ячейки приводятся к пустым строкам
func (s *WorkbookSuite) TestLoadBasics() {
	p := s.path("data.xlsx")
	writeWorkbook(s.T(), p,
		[][]string{
			{"ID", "Name", "City"},
			{"7", "Ada", "London"},
			{" 8 ", "Grace"}, // ячейки City нет, идентификатор с пробелами
		},
		[][]string{
			{"Company"},
			{"Acme"},
		})

	wb, err := docmerger.LoadWorkbook(p, "", "")
	s.Require().NoError(err)

	s.Assert().Equal([]string{"Name", "City"}, wb.RecordHeaders)
	s.Assert().Len(wb.Records, 2)
	s.Assert().Equal([]string{"Ada", "London"}, wb.Records["7"])
	s.Assert().Equal([]string{"Grace", ""}, wb.Records["8"], "идентификатор обрезается, ячейки добиваются пустыми")
	s.Assert().Equal([]string{"Company"}, wb.DefaultHeaders)
	s.Assert().Equal([]string{"Acme"}, wb.DefaultValues)
}

// TestBlankIDRowSkipped — строка с пустым идентификатором пропадает молча
func (s *WorkbookSuite) TestBlankIDRowSkipped() {
	p := s.path("data.xlsx")
	writeWorkbook(s.T(), p,
		[][]string{
			{"ID", "Name"},
			{"", "Nobody"},
			{"1", "Ada"},
		},
		[][]string{{"X"}, {"y"}})

	wb, err := docmerger.LoadWorkbook(p, "", "")
	s.Require().NoError(err)
	s.Assert().Len(wb.Records, 1)
	s.Assert().Contains(wb.Records, "1")
}

// TestDefaultsPadding — несовпадение длин заголовков и значений
// выравнивается пустыми строками, а не ошибкой
func (s *WorkbookSuite) TestDefaultsPadding() {
	p := s.path("data.xlsx")
	writeWorkbook(s.T(), p,
		[][]string{{"ID"}, {"1"}},
		[][]string{
			{"A", "B", "C"},
			{"only"},
		})

	wb, err := docmerger.LoadWorkbook(p, "", "")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"A", "B", "C"}, wb.DefaultHeaders)
	s.Assert().Equal([]string{"only", "", ""}, wb.DefaultValues)
}

// TestMissingSheet — отсутствие любого из листов фатально
func (s *WorkbookSuite) TestMissingSheet() {
	p := s.path("data.xlsx")
	writeWorkbook(s.T(), p, [][]string{{"ID"}}, nil)

	_, err := docmerger.LoadWorkbook(p, "", "")
	s.Require().ErrorIs(err, docmerger.ErrMissingSheet)

	p2 := s.path("data2.xlsx")
	writeWorkbook(s.T(), p2, nil, [][]string{{"X"}, {"y"}})
	_, err = docmerger.LoadWorkbook(p2, "", "")
	s.Require().ErrorIs(err, docmerger.ErrMissingSheet)
}

// TestEmptyTables — нет строки заголовков или строки значений
func (s *WorkbookSuite) TestEmptyTables() {
	p := s.path("data.xlsx")
	writeWorkbook(s.T(), p, [][]string{}, [][]string{{"X"}, {"y"}})
	_, err := docmerger.LoadWorkbook(p, "", "")
	s.Require().ErrorIs(err, docmerger.ErrEmptyTable)

	p2 := s.path("data2.xlsx")
	writeWorkbook(s.T(), p2, [][]string{{"ID"}}, [][]string{{"X"}})
	_, err = docmerger.LoadWorkbook(p2, "", "")
	s.Require().ErrorIs(err, docmerger.ErrEmptyTable, "у листа умолчаний нет строки значений")
}

// TestCustomSheetNames — имена листов настраиваются
func (s *WorkbookSuite) TestCustomSheetNames() {
	p := s.path("data.xlsx")
	writeWorkbook(s.T(), p, [][]string{{"ID", "N"}, {"1", "v"}}, [][]string{{"X"}, {"y"}})
	// физически листы называются Data/Defaults — под другими именами их нет
	_, err := docmerger.LoadWorkbook(p, "Main", "Shared")
	s.Require().ErrorIs(err, docmerger.ErrMissingSheet)

	wb, err := docmerger.LoadWorkbook(p, "Data", "Defaults")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"v"}, wb.Records["1"])
}
