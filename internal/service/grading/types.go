package grading

import (
	"encoding/json"
	"fmt"
)

// Поддерживаемые типы шортов. Любой тип вне этого набора не имеет логики
// проверки и отклоняется на этапе валидации.
const (
	TypeMCQ        = "mcq"
	TypeTrueFalse  = "true_false"
	TypeOneWord    = "one_word"
	TypeCodeOutput = "code_output"
	TypeOneNumber  = "one_number"
)

// Теги режима проверки внутри validation_rule. Режим должен соответствовать
// типу шорта (mcq -> mcq, true_false -> boolean и т.д.)
const (
	ModeMCQ     = "mcq"
	ModeBoolean = "boolean"
	ModeText    = "text"
	ModeNumeric = "numeric"
)

// Зарезервированные на клиенте типы без серверной логики проверки.
// Явно отклоняются валидатором, чтобы такие определения не попали в БД.
var reservedTypes = map[string]bool{
	"fill_blanks": true,
	"sequence":    true,
	"rearrange":   true,
	"spot_error":  true,
}

// Ограничения авторинга
const (
	MinTimeLimitSec = 5
	MaxTimeLimitSec = 60
	MinPoints       = 1
	MaxPoints       = 10

	maxChoiceTextLen = 200
	minChoices       = 2
)

// MCQChoice представляет один вариант ответа MCQ-шорта.
// Вариант валиден, если есть непустой текст или валидный URL картинки (или оба).
type MCQChoice struct {
	Text string `json:"text,omitempty"`
	Img  string `json:"img,omitempty"`
}

// MCQPayload содержит варианты ответа, показываемые ученику
type MCQPayload struct {
	Choices []MCQChoice `json:"choices"`
}

// CodePayload содержит фрагмент кода для шорта типа code_output
type CodePayload struct {
	Code string `json:"code"`
}

// MCQRule содержит правило проверки для mcq: индекс правильного варианта
type MCQRule struct {
	Mode         string `json:"mode"`
	CorrectIndex *int   `json:"correctIndex"`
}

// BooleanRule содержит правило проверки для true_false.
// Answer — указатель, чтобы отличать false от отсутствующего поля.
type BooleanRule struct {
	Mode   string `json:"mode"`
	Answer *bool  `json:"answer"`
}

// TextRule содержит правило проверки для текстовых типов (one_word, code_output).
// Флаги нормализации — указатели: отсутствующий флаг означает значение по умолчанию (true).
type TextRule struct {
	Mode            string   `json:"mode"`
	Answers         []string `json:"answers"`
	Trim            *bool    `json:"trim,omitempty"`
	CaseInsensitive *bool    `json:"caseInsensitive,omitempty"`
	CollapseSpaces  *bool    `json:"collapseSpaces,omitempty"`
}

// NumericRule содержит правило проверки для one_number.
// Tolerance — допустимое абсолютное отклонение, по умолчанию 0 (точное совпадение).
type NumericRule struct {
	Mode      string   `json:"mode"`
	Exact     *float64 `json:"exact"`
	Tolerance *float64 `json:"tolerance,omitempty"`
}

// Definition — типизированное определение шорта (tagged union).
// Для каждого типа заполнена ровно одна пара payload/rule; структура
// заполняется через ParseDefinition и считается неизменяемой после создания.
type Definition struct {
	Type         string
	TimeLimitSec int
	MaxPoints    int

	// Варианты payload (по типу)
	MCQ  *MCQPayload
	Code *CodePayload

	// Варианты правила проверки (по типу)
	MCQRule     *MCQRule
	BooleanRule *BooleanRule
	TextRule    *TextRule
	NumericRule *NumericRule
}

// ParseDefinition декодирует "сырые" JSON payload/validation_rule веб-слоя
// в типизированное определение. Ошибки декодирования возвращаются как
// ValidationErrors с путём до поля.
func ParseDefinition(shortType string, payload, rule json.RawMessage, timeLimitSec, maxPoints int) (*Definition, error) {
	def := &Definition{
		Type:         shortType,
		TimeLimitSec: timeLimitSec,
		MaxPoints:    maxPoints,
	}

	switch shortType {
	case TypeMCQ:
		def.MCQ = &MCQPayload{}
		if err := decodeField("payload", payload, def.MCQ); err != nil {
			return nil, err
		}
		def.MCQRule = &MCQRule{}
		if err := decodeField("validation_rule", rule, def.MCQRule); err != nil {
			return nil, err
		}
	case TypeTrueFalse:
		def.BooleanRule = &BooleanRule{}
		if err := decodeField("validation_rule", rule, def.BooleanRule); err != nil {
			return nil, err
		}
	case TypeOneWord:
		def.TextRule = &TextRule{}
		if err := decodeField("validation_rule", rule, def.TextRule); err != nil {
			return nil, err
		}
	case TypeCodeOutput:
		def.Code = &CodePayload{}
		if err := decodeField("payload", payload, def.Code); err != nil {
			return nil, err
		}
		def.TextRule = &TextRule{}
		if err := decodeField("validation_rule", rule, def.TextRule); err != nil {
			return nil, err
		}
	case TypeOneNumber:
		def.NumericRule = &NumericRule{}
		if err := decodeField("validation_rule", rule, def.NumericRule); err != nil {
			return nil, err
		}
	default:
		if reservedTypes[shortType] {
			return nil, ValidationErrors{{Field: "type", Message: fmt.Sprintf("type '%s' is reserved and not yet supported", shortType)}}
		}
		return nil, ValidationErrors{{Field: "type", Message: fmt.Sprintf("unknown short type '%s'", shortType)}}
	}

	return def, nil
}

// decodeField декодирует JSON в целевую структуру, преобразуя ошибку в FieldError
func decodeField(field string, raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 {
		// Пустой JSON трактуем как пустой объект: обязательность полей
		// проверяет валидатор, а не декодер
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ValidationErrors{{Field: field, Message: fmt.Sprintf("malformed JSON: %v", err)}}
	}
	return nil
}
