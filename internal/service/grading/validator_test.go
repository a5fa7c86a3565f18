package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Хелперы
// ============================================================================

func mustValidate(t *testing.T, shortType string, payload, rule string) *Definition {
	t.Helper()
	def, err := ValidateDefinition(shortType, json.RawMessage(payload), json.RawMessage(rule), 30, 5)
	require.NoError(t, err, "определение должно пройти валидацию")
	require.NotNil(t, def)
	return def
}

func validationErrs(t *testing.T, err error) ValidationErrors {
	t.Helper()
	require.Error(t, err)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs, "ошибка должна быть ValidationErrors")
	return errs
}

// fieldsOf возвращает список путей полей из ошибок валидации
func fieldsOf(errs ValidationErrors) []string {
	fields := make([]string, len(errs))
	for i, fe := range errs {
		fields[i] = fe.Field
	}
	return fields
}

// ============================================================================
// MCQ
// ============================================================================

func TestValidateDefinition_MCQ_Valid(t *testing.T) {
	def := mustValidate(t, TypeMCQ,
		`{"choices":[{"text":"Париж"},{"text":"Лондон"},{"text":"Берлин"}]}`,
		`{"mode":"mcq","correctIndex":0}`,
	)

	require.NotNil(t, def.MCQ)
	require.NotNil(t, def.MCQRule)
	assert.Len(t, def.MCQ.Choices, 3)
	assert.Equal(t, 0, *def.MCQRule.CorrectIndex)
}

func TestValidateDefinition_MCQ_ImageOnlyChoiceIsValid(t *testing.T) {
	def := mustValidate(t, TypeMCQ,
		`{"choices":[{"img":"https://cdn.example.com/a.png"},{"text":"вариант Б"}]}`,
		`{"mode":"mcq","correctIndex":1}`,
	)
	assert.Equal(t, "", def.MCQ.Choices[0].Text, "вариант только с картинкой допустим")
}

func TestValidateDefinition_MCQ_SingleChoiceRejected(t *testing.T) {
	// Инвариант: payload с одним вариантом отклоняется
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"text":"единственный"}]}`),
		json.RawMessage(`{"mode":"mcq","correctIndex":0}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "payload.choices", "ошибка должна указывать на choices")
}

func TestValidateDefinition_MCQ_CorrectIndexOutOfRange(t *testing.T) {
	// correctIndex = 5 при трёх вариантах
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"text":"A"},{"text":"B"},{"text":"C"}]}`),
		json.RawMessage(`{"mode":"mcq","correctIndex":5}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.correctIndex")
}

func TestValidateDefinition_MCQ_NegativeCorrectIndex(t *testing.T) {
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"text":"A"},{"text":"B"}]}`),
		json.RawMessage(`{"mode":"mcq","correctIndex":-1}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.correctIndex")
}

func TestValidateDefinition_MCQ_MissingCorrectIndex(t *testing.T) {
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"text":"A"},{"text":"B"}]}`),
		json.RawMessage(`{"mode":"mcq"}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.correctIndex", "отсутствующий correctIndex — отдельная ошибка поля")
}

func TestValidateDefinition_MCQ_EmptyChoice(t *testing.T) {
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"text":"   "},{"text":"B"}]}`),
		json.RawMessage(`{"mode":"mcq","correctIndex":1}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "payload.choices[0]", "пустой после trim вариант без картинки невалиден")
}

func TestValidateDefinition_MCQ_ChoiceTextTooLong(t *testing.T) {
	long := make([]rune, maxChoiceTextLen+1)
	for i := range long {
		long[i] = 'ж'
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]string{{"text": string(long)}, {"text": "B"}},
	})

	_, err := ValidateDefinition(TypeMCQ, payload, json.RawMessage(`{"mode":"mcq","correctIndex":1}`), 30, 5)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "payload.choices[0].text", "длина считается в символах, не байтах")
}

func TestValidateDefinition_MCQ_InvalidImageURL(t *testing.T) {
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"img":"not a url"},{"text":"B"}]}`),
		json.RawMessage(`{"mode":"mcq","correctIndex":1}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "payload.choices[0].img")
}

func TestValidateDefinition_MCQ_WrongModeTag(t *testing.T) {
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":[{"text":"A"},{"text":"B"}]}`),
		json.RawMessage(`{"mode":"text","correctIndex":0}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.mode")
}

// ============================================================================
// true_false / one_word / code_output / one_number
// ============================================================================

func TestValidateDefinition_TrueFalse_Valid(t *testing.T) {
	def := mustValidate(t, TypeTrueFalse, ``, `{"mode":"boolean","answer":false}`)

	require.NotNil(t, def.BooleanRule)
	assert.False(t, *def.BooleanRule.Answer, "answer=false должен сохраниться, а не считаться отсутствующим")
}

func TestValidateDefinition_TrueFalse_MissingAnswer(t *testing.T) {
	_, err := ValidateDefinition(TypeTrueFalse, nil, json.RawMessage(`{"mode":"boolean"}`), 30, 5)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.answer")
}

func TestValidateDefinition_OneWord_Valid(t *testing.T) {
	def := mustValidate(t, TypeOneWord, ``, `{"mode":"text","answers":["Paris"," paris "]}`)
	assert.Len(t, def.TextRule.Answers, 2)
}

func TestValidateDefinition_OneWord_EmptyAnswers(t *testing.T) {
	_, err := ValidateDefinition(TypeOneWord, nil, json.RawMessage(`{"mode":"text","answers":[]}`), 30, 5)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.answers")
}

func TestValidateDefinition_CodeOutput_Valid(t *testing.T) {
	def := mustValidate(t, TypeCodeOutput,
		`{"code":"fmt.Println(1+1)"}`,
		`{"mode":"text","answers":["2"]}`,
	)
	assert.Equal(t, "fmt.Println(1+1)", def.Code.Code)
}

func TestValidateDefinition_CodeOutput_EmptyCode(t *testing.T) {
	_, err := ValidateDefinition(TypeCodeOutput,
		json.RawMessage(`{"code":"  "}`),
		json.RawMessage(`{"mode":"text","answers":["2"]}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "payload.code")
}

func TestValidateDefinition_OneNumber_Valid(t *testing.T) {
	def := mustValidate(t, TypeOneNumber, ``, `{"mode":"numeric","exact":3.14,"tolerance":0.01}`)

	assert.Equal(t, 3.14, *def.NumericRule.Exact)
	assert.Equal(t, 0.01, *def.NumericRule.Tolerance)
}

func TestValidateDefinition_OneNumber_ToleranceOptional(t *testing.T) {
	def := mustValidate(t, TypeOneNumber, ``, `{"mode":"numeric","exact":8}`)
	assert.Nil(t, def.NumericRule.Tolerance, "отсутствующий допуск означает точное совпадение")
}

func TestValidateDefinition_OneNumber_MissingExact(t *testing.T) {
	_, err := ValidateDefinition(TypeOneNumber, nil, json.RawMessage(`{"mode":"numeric"}`), 30, 5)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.exact")
}

func TestValidateDefinition_OneNumber_NegativeTolerance(t *testing.T) {
	_, err := ValidateDefinition(TypeOneNumber, nil, json.RawMessage(`{"mode":"numeric","exact":1,"tolerance":-0.5}`), 30, 5)

	errs := validationErrs(t, err)
	assert.Contains(t, fieldsOf(errs), "validation_rule.tolerance")
}

// ============================================================================
// Границы авторинга и типы
// ============================================================================

func TestValidateDefinition_AuthoringBounds(t *testing.T) {
	testCases := []struct {
		name         string
		timeLimitSec int
		maxPoints    int
		wantField    string
	}{
		{"время меньше минимума", 4, 5, "time_limit_sec"},
		{"время больше максимума", 61, 5, "time_limit_sec"},
		{"ноль баллов", 30, 0, "max_points"},
		{"слишком много баллов", 30, 11, "max_points"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDefinition(TypeTrueFalse, nil,
				json.RawMessage(`{"mode":"boolean","answer":true}`), tc.timeLimitSec, tc.maxPoints)

			errs := validationErrs(t, err)
			assert.Contains(t, fieldsOf(errs), tc.wantField)
		})
	}
}

func TestValidateDefinition_BoundaryValuesAccepted(t *testing.T) {
	// Граничные значения включительно: 5-60 секунд, 1-10 баллов
	for _, vals := range [][2]int{{5, 1}, {60, 10}} {
		_, err := ValidateDefinition(TypeTrueFalse, nil,
			json.RawMessage(`{"mode":"boolean","answer":true}`), vals[0], vals[1])
		assert.NoError(t, err, "граничные значения %v должны приниматься", vals)
	}
}

func TestValidateDefinition_ReservedTypesRejected(t *testing.T) {
	// Зарезервированные типы без серверной логики проверки отклоняются явно
	for _, shortType := range []string{"fill_blanks", "sequence", "rearrange", "spot_error"} {
		t.Run(shortType, func(t *testing.T) {
			_, err := ValidateDefinition(shortType, nil, nil, 30, 5)

			errs := validationErrs(t, err)
			require.Len(t, errs, 1)
			assert.Equal(t, "type", errs[0].Field)
			assert.Contains(t, errs[0].Message, "reserved")
		})
	}
}

func TestValidateDefinition_UnknownTypeRejected(t *testing.T) {
	_, err := ValidateDefinition("essay", nil, nil, 30, 5)

	errs := validationErrs(t, err)
	assert.Equal(t, "type", errs[0].Field)
}

func TestValidateDefinition_MalformedJSON(t *testing.T) {
	_, err := ValidateDefinition(TypeMCQ,
		json.RawMessage(`{"choices":`), // оборванный JSON
		json.RawMessage(`{"mode":"mcq","correctIndex":0}`),
		30, 5,
	)

	errs := validationErrs(t, err)
	assert.Equal(t, "payload", errs[0].Field, "ошибка декодирования должна указывать на поле")
}
