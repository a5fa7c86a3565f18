package grading

import (
	"fmt"
	"strings"
)

// FieldError описывает одно нарушение контракта формы: путь до поля + сообщение.
// Валидатор никогда не возвращает "общую" ошибку без указания поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors агрегирует все нарушения, найденные при валидации определения
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}
