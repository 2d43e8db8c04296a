package format

import (
	"errors"
	"fmt"
)

// Виды ошибок декодирования бинарных форматов
var (
	ErrInvalidDimensions = errors.New("некорректные размеры")
	ErrBadMagic          = errors.New("неверная сигнатура")
	ErrTruncated         = errors.New("данные обрезаны")
)

// FormatError ошибка разбора файла. Совпадает через errors.Is со своим видом (Kind).
type FormatError struct {
	Format   string // имя формата, например "height.raw"
	Kind     error  // один из ErrInvalidDimensions, ErrBadMagic, ErrTruncated
	Expected int
	Actual   int
	Detail   string
}

// Error реализует интерфейс error
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %v: ожидалось %d, получено %d", e.Format, e.Kind, e.Expected, e.Actual)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap возвращает вид ошибки
func (e *FormatError) Unwrap() error {
	return e.Kind
}

// ValidationError замечание нестрогого разбора текстового формата.
// Запись при этом не отбрасывается: значение переносится как есть.
type ValidationError struct {
	Record int    `json:"record"` // порядковый номер записи, с 1
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// Error реализует интерфейс error
func (e ValidationError) Error() string {
	return fmt.Sprintf("запись %d: поле %s: некорректное значение %q", e.Record, e.Field, e.Value)
}

// Report итог нестрогого разбора текстового файла
type Report struct {
	Records int               `json:"records"` // сколько записей разобрано
	Skipped int               `json:"skipped"` // сколько записей отброшено целиком
	Invalid int               `json:"invalid"` // сколько записей содержат хотя бы одно замечание
	Issues  []ValidationError `json:"issues,omitempty"`
}

// Clean сообщает, что разбор прошёл без потерь и замечаний
func (r Report) Clean() bool {
	return r.Skipped == 0 && r.Invalid == 0
}

func (r *Report) addIssues(issues []ValidationError) {
	if len(issues) == 0 {
		return
	}
	r.Invalid++
	r.Issues = append(r.Issues, issues...)
}
