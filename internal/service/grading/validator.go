package grading

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ValidateDefinition проверяет форму авторского определения шорта перед
// сохранением: декодирует payload/validation_rule и применяет потиповой
// контракт. Валидация чистая: без I/O и разделяемого состояния.
// Невалидная комбинация никогда не должна попасть в БД.
func ValidateDefinition(shortType string, payload, rule json.RawMessage, timeLimitSec, maxPoints int) (*Definition, error) {
	def, err := ParseDefinition(shortType, payload, rule, timeLimitSec, maxPoints)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Validate применяет потиповой контракт формы к уже декодированному определению.
// Все найденные нарушения возвращаются разом, каждое — с путём до поля.
func (d *Definition) Validate() error {
	var errs ValidationErrors

	if d.TimeLimitSec < MinTimeLimitSec || d.TimeLimitSec > MaxTimeLimitSec {
		errs = append(errs, FieldError{
			Field:   "time_limit_sec",
			Message: fmt.Sprintf("must be between %d and %d seconds", MinTimeLimitSec, MaxTimeLimitSec),
		})
	}
	if d.MaxPoints < MinPoints || d.MaxPoints > MaxPoints {
		errs = append(errs, FieldError{
			Field:   "max_points",
			Message: fmt.Sprintf("must be between %d and %d", MinPoints, MaxPoints),
		})
	}

	switch d.Type {
	case TypeMCQ:
		errs = append(errs, d.validateMCQ()...)
	case TypeTrueFalse:
		errs = append(errs, d.validateTrueFalse()...)
	case TypeOneWord:
		errs = append(errs, d.validateTextRule()...)
	case TypeCodeOutput:
		errs = append(errs, d.validateCodeOutput()...)
	case TypeOneNumber:
		errs = append(errs, d.validateOneNumber()...)
	default:
		errs = append(errs, FieldError{Field: "type", Message: fmt.Sprintf("unknown short type '%s'", d.Type)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (d *Definition) validateMCQ() ValidationErrors {
	var errs ValidationErrors

	if d.MCQ == nil || len(d.MCQ.Choices) < minChoices {
		errs = append(errs, FieldError{
			Field:   "payload.choices",
			Message: fmt.Sprintf("at least %d choices are required", minChoices),
		})
	} else {
		for i, choice := range d.MCQ.Choices {
			text := strings.TrimSpace(choice.Text)
			hasText := text != ""
			hasImg := choice.Img != ""

			if !hasText && !hasImg {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("payload.choices[%d]", i),
					Message: "choice must have non-empty text or an image URL",
				})
				continue
			}
			if hasText && len([]rune(text)) > maxChoiceTextLen {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("payload.choices[%d].text", i),
					Message: fmt.Sprintf("must not exceed %d characters", maxChoiceTextLen),
				})
			}
			if hasImg && !isValidURL(choice.Img) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("payload.choices[%d].img", i),
					Message: "must be a valid URL",
				})
			}
		}
	}

	rule := d.MCQRule
	if rule == nil {
		errs = append(errs, FieldError{Field: "validation_rule", Message: "mcq rule is required"})
		return errs
	}
	if rule.Mode != ModeMCQ {
		errs = append(errs, FieldError{
			Field:   "validation_rule.mode",
			Message: fmt.Sprintf("must be '%s' for type '%s'", ModeMCQ, TypeMCQ),
		})
	}
	if rule.CorrectIndex == nil {
		errs = append(errs, FieldError{Field: "validation_rule.correctIndex", Message: "is required"})
	} else if d.MCQ != nil {
		if idx := *rule.CorrectIndex; idx < 0 || idx >= len(d.MCQ.Choices) {
			errs = append(errs, FieldError{
				Field:   "validation_rule.correctIndex",
				Message: fmt.Sprintf("must be within [0, %d)", len(d.MCQ.Choices)),
			})
		}
	}
	return errs
}

func (d *Definition) validateTrueFalse() ValidationErrors {
	var errs ValidationErrors

	rule := d.BooleanRule
	if rule == nil {
		errs = append(errs, FieldError{Field: "validation_rule", Message: "boolean rule is required"})
		return errs
	}
	if rule.Mode != ModeBoolean {
		errs = append(errs, FieldError{
			Field:   "validation_rule.mode",
			Message: fmt.Sprintf("must be '%s' for type '%s'", ModeBoolean, TypeTrueFalse),
		})
	}
	if rule.Answer == nil {
		errs = append(errs, FieldError{Field: "validation_rule.answer", Message: "is required"})
	}
	return errs
}

func (d *Definition) validateTextRule() ValidationErrors {
	var errs ValidationErrors

	rule := d.TextRule
	if rule == nil {
		errs = append(errs, FieldError{Field: "validation_rule", Message: "text rule is required"})
		return errs
	}
	if rule.Mode != ModeText {
		errs = append(errs, FieldError{
			Field:   "validation_rule.mode",
			Message: fmt.Sprintf("must be '%s' for type '%s'", ModeText, d.Type),
		})
	}
	if len(rule.Answers) == 0 {
		errs = append(errs, FieldError{Field: "validation_rule.answers", Message: "at least one accepted answer is required"})
	}
	return errs
}

func (d *Definition) validateCodeOutput() ValidationErrors {
	var errs ValidationErrors

	if d.Code == nil || strings.TrimSpace(d.Code.Code) == "" {
		errs = append(errs, FieldError{Field: "payload.code", Message: "non-empty code snippet is required"})
	}
	errs = append(errs, d.validateTextRule()...)
	return errs
}

func (d *Definition) validateOneNumber() ValidationErrors {
	var errs ValidationErrors

	rule := d.NumericRule
	if rule == nil {
		errs = append(errs, FieldError{Field: "validation_rule", Message: "numeric rule is required"})
		return errs
	}
	if rule.Mode != ModeNumeric {
		errs = append(errs, FieldError{
			Field:   "validation_rule.mode",
			Message: fmt.Sprintf("must be '%s' for type '%s'", ModeNumeric, TypeOneNumber),
		})
	}
	if rule.Exact == nil {
		errs = append(errs, FieldError{Field: "validation_rule.exact", Message: "is required"})
	}
	if rule.Tolerance != nil && *rule.Tolerance < 0 {
		errs = append(errs, FieldError{Field: "validation_rule.tolerance", Message: "must not be negative"})
	}
	return errs
}

// isValidURL проверяет синтаксическую валидность URL картинки варианта
func isValidURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
