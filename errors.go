package docmerger

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSheet — в книге нет обязательного листа.
	ErrMissingSheet = errors.New("лист не найден")
	// ErrEmptyTable — у таблицы нет строки заголовков или строки значений.
	ErrEmptyTable = errors.New("таблица пуста")
)

// DocumentError — ошибка загрузки, подстановки или рендера документа
// одной записи.
type DocumentError struct {
	ID  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("документ записи %s: %v", e.ID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// PersistError — ошибка записи готового артефакта одной записи.
type PersistError struct {
	ID  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("сохранение записи %s: %v", e.ID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
