package sheets

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable — транзиентная ошибка сети/API хранилища.
	ErrUnavailable = errors.New("sheets: store unavailable")
	// ErrNotFound — лист, строка или колонка домашки отсутствуют.
	ErrNotFound = errors.New("sheets: not found")
)

// SchemaError — в таблице нет ожидаемой колонки. Это ошибка конфигурации
// ростера, а не сети, поэтому наружу она отдаётся отдельным типом.
type SchemaError struct {
	Sheet  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheets: column %q missing in %s", e.Column, e.Sheet)
}
