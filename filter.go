package docmerger

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter — скомпилированное выражение отбора записей. Выражение видит
// идентификатор как ID и все поля записи по именам заголовков; значения
// по умолчанию попадают в окружение, но поля записи их перекрывают —
// та же очередность, что и при подстановке.
type Filter struct {
	src  string
	prog *vm.Program
}

// CompileFilter компилирует выражение отбора. Пустое выражение означает
// «все записи проходят».
func CompileFilter(src string) (*Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return &Filter{}, nil
	}
	prog, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("фильтр записей: %w", err)
	}
	return &Filter{src: src, prog: prog}, nil
}

// Match сообщает, проходит ли запись фильтр.
func (f *Filter) Match(id string, wb *Workbook, values []string) (bool, error) {
	if f == nil || f.prog == nil {
		return true, nil
	}
	env := map[string]interface{}{IDHeader: id}
	for i, h := range wb.DefaultHeaders {
		if h != "" && i < len(wb.DefaultValues) {
			env[h] = wb.DefaultValues[i]
		}
	}
	for i, h := range wb.RecordHeaders {
		if h != "" && i < len(values) {
			env[h] = values[i]
		}
	}
	out, err := expr.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("фильтр записи %s: %w", id, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("фильтр записи %s: ожидался bool, получен %T", id, out)
	}
	return b, nil
}
