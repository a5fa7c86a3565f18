package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Хелперы для построения определений напрямую (минуя JSON)
// ============================================================================

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }
func floatPtr(v float64) *float64 { return &v }
func raw(s string) json.RawMessage { return json.RawMessage(s) }

func mcqDef(correctIndex, choices int) *Definition {
	cs := make([]MCQChoice, choices)
	for i := range cs {
		cs[i] = MCQChoice{Text: "вариант"}
	}
	return &Definition{
		Type:         TypeMCQ,
		TimeLimitSec: 30,
		MaxPoints:    5,
		MCQ:          &MCQPayload{Choices: cs},
		MCQRule:      &MCQRule{Mode: ModeMCQ, CorrectIndex: intPtr(correctIndex)},
	}
}

func textDef(answers ...string) *Definition {
	return &Definition{
		Type:         TypeOneWord,
		TimeLimitSec: 30,
		MaxPoints:    3,
		TextRule:     &TextRule{Mode: ModeText, Answers: answers},
	}
}

func numberDef(exact, tolerance float64) *Definition {
	return &Definition{
		Type:         TypeOneNumber,
		TimeLimitSec: 30,
		MaxPoints:    10,
		NumericRule:  &NumericRule{Mode: ModeNumeric, Exact: floatPtr(exact), Tolerance: floatPtr(tolerance)},
	}
}

// ============================================================================
// MCQ
// ============================================================================

func TestGrade_MCQ_CorrectIndex(t *testing.T) {
	def := mcqDef(2, 4)

	verdict := Grade(def, raw(`2`))

	assert.True(t, verdict.IsCorrect, "совпадающий индекс должен быть правильным")
	assert.Equal(t, 2, verdict.Normalized, "нормализованный ответ — целочисленный индекс")
}

func TestGrade_MCQ_AllOtherIndexesIncorrect(t *testing.T) {
	// Инвариант: любой другой индекс в диапазоне — неправильно и 0 баллов
	def := mcqDef(1, 4)

	for _, idx := range []string{`0`, `2`, `3`} {
		result := GradeSubmission(def, raw(idx))
		assert.False(t, result.IsCorrect, "индекс %s не должен быть правильным", idx)
		assert.Equal(t, 0, result.PointsAwarded)
	}
}

func TestGrade_MCQ_StringIndexCoerced(t *testing.T) {
	def := mcqDef(2, 4)

	verdict := Grade(def, raw(`"2"`))

	assert.True(t, verdict.IsCorrect, "строка с числом должна приводиться к индексу")
	assert.Equal(t, 2, verdict.Normalized)
}

func TestGrade_MCQ_NonNumericAnswer(t *testing.T) {
	def := mcqDef(0, 3)

	verdict := Grade(def, raw(`"banana"`))

	assert.False(t, verdict.IsCorrect)
	assert.Equal(t, "banana", verdict.Normalized, "сырое значение проходит насквозь без нормализации")
}

func TestGrade_MCQ_FractionalIndexRejected(t *testing.T) {
	def := mcqDef(1, 3)

	verdict := Grade(def, raw(`1.5`))

	assert.False(t, verdict.IsCorrect, "нецелое число не является валидным индексом")
}

// ============================================================================
// true_false
// ============================================================================

func TestGrade_TrueFalse_EquivalentTruthyInputs(t *testing.T) {
	// Инвариант: "true", 1 и true — эквивалентные входы при answer == true
	def := &Definition{
		Type:        TypeTrueFalse,
		MaxPoints:   2,
		BooleanRule: &BooleanRule{Mode: ModeBoolean, Answer: boolPtr(true)},
	}

	for _, input := range []string{`true`, `"true"`, `1`, `"1"`, `"TRUE"`, `" True "`} {
		t.Run(input, func(t *testing.T) {
			verdict := Grade(def, raw(input))

			assert.True(t, verdict.IsCorrect, "вход %s должен разбираться как true", input)
			assert.Equal(t, true, verdict.Normalized)
		})
	}
}

func TestGrade_TrueFalse_FalsyInputs(t *testing.T) {
	def := &Definition{
		Type:        TypeTrueFalse,
		MaxPoints:   2,
		BooleanRule: &BooleanRule{Mode: ModeBoolean, Answer: boolPtr(false)},
	}

	for _, input := range []string{`false`, `"false"`, `0`, `"0"`} {
		verdict := Grade(def, raw(input))
		assert.True(t, verdict.IsCorrect, "вход %s должен разбираться как false", input)
	}
}

func TestGrade_TrueFalse_UnparseableInput(t *testing.T) {
	def := &Definition{
		Type:        TypeTrueFalse,
		MaxPoints:   2,
		BooleanRule: &BooleanRule{Mode: ModeBoolean, Answer: boolPtr(true)},
	}

	verdict := Grade(def, raw(`"yes"`))

	assert.False(t, verdict.IsCorrect, "неразборчивый вход — неправильно, без ошибки")
	assert.Equal(t, "yes", verdict.Normalized, "сырое значение проходит без нормализации")
}

// ============================================================================
// one_word / code_output (текстовый конвейер)
// ============================================================================

func TestGrade_OneWord_NormalizationVariants(t *testing.T) {
	// Инвариант: answers = ["Paris", " paris "] с дефолтными флагами
	def := textDef("Paris", " paris ")

	for _, input := range []string{`"PARIS"`, `" Paris "`, `"paris"`} {
		t.Run(input, func(t *testing.T) {
			verdict := Grade(def, raw(input))

			assert.True(t, verdict.IsCorrect, "вход %s должен совпасть после нормализации", input)
			assert.Equal(t, "paris", verdict.Normalized)
		})
	}
}

func TestGrade_OneWord_NormalizationIsIdempotent(t *testing.T) {
	def := textDef("Paris")

	first := Grade(def, raw(`"  PARIS  "`))
	second := Grade(def, raw(`"paris"`)) // уже нормализованная форма

	assert.Equal(t, first.Normalized, second.Normalized, "нормализация уже нормализованной строки — no-op")
	assert.True(t, second.IsCorrect)
}

func TestGrade_OneWord_CollapseInnerWhitespace(t *testing.T) {
	def := textDef("New York")

	verdict := Grade(def, raw(`"new    york"`))

	assert.True(t, verdict.IsCorrect, "серии пробелов должны схлопываться в один")
	assert.Equal(t, "new york", verdict.Normalized)
}

func TestGrade_OneWord_NoSubstringMatch(t *testing.T) {
	def := textDef("Paris")

	verdict := Grade(def, raw(`"paris france"`))

	assert.False(t, verdict.IsCorrect, "сравнение точное, не по подстроке")
}

func TestGrade_OneWord_CaseSensitiveFlagDisabled(t *testing.T) {
	// Выключаем caseInsensitive: регистр становится значимым
	def := textDef("Paris")
	def.TextRule.CaseInsensitive = boolPtr(false)

	assert.False(t, Grade(def, raw(`"paris"`)).IsCorrect)
	assert.True(t, Grade(def, raw(`"Paris"`)).IsCorrect)
}

func TestGrade_OneWord_TrimFlagDisabled(t *testing.T) {
	def := textDef("paris")
	def.TextRule.Trim = boolPtr(false)

	assert.False(t, Grade(def, raw(`" paris "`)).IsCorrect, "без trim ведущие пробелы значимы")
}

func TestGrade_OneWord_CollapseWithoutTrimKeepsBoundaries(t *testing.T) {
	// collapseSpaces схлопывает только последовательности пробелов;
	// края строки — зона ответственности флага trim
	def := textDef("new york")
	def.TextRule.Trim = boolPtr(false)

	assert.True(t, Grade(def, raw(`"new   york"`)).IsCorrect, "внутренние пробелы схлопываются")
	assert.False(t, Grade(def, raw(`" new york "`)).IsCorrect, "без trim краевые пробелы значимы")
}

func TestGrade_OneWord_UnicodeLowercase(t *testing.T) {
	def := textDef("МОСКВА")

	verdict := Grade(def, raw(`"москва"`))

	assert.True(t, verdict.IsCorrect, "понижение регистра должно быть Unicode-aware")
}

func TestGrade_CodeOutput_UsesTextPipeline(t *testing.T) {
	def := &Definition{
		Type:      TypeCodeOutput,
		MaxPoints: 4,
		Code:      &CodePayload{Code: "print(1+1)"},
		TextRule:  &TextRule{Mode: ModeText, Answers: []string{"2"}},
	}

	result := GradeSubmission(def, raw(`" 2 "`))

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 4, result.PointsAwarded)
}

// ============================================================================
// one_number (допуск, границы включительно)
// ============================================================================

func TestGrade_OneNumber_ToleranceBoundaryInclusive(t *testing.T) {
	// Инвариант: exact=3.14, tolerance=0.01 -> 3.13..3.15 правильно, дальше нет
	def := numberDef(3.14, 0.01)

	testCases := []struct {
		input   string
		correct bool
	}{
		{`3.13`, true},
		{`3.14`, true},
		{`3.15`, true},
		{`3.12`, false},
		{`3.16`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			verdict := Grade(def, raw(tc.input))
			assert.Equal(t, tc.correct, verdict.IsCorrect, "вход %s", tc.input)
		})
	}
}

func TestGrade_OneNumber_ToleranceBoundaryStringInput(t *testing.T) {
	// Граница включительна и для строкового входа: разбор "3.13" даёт
	// |3.13 - 3.14| = 0.010000000000000231, что не должно выбивать ответ за допуск
	def := numberDef(3.14, 0.01)

	assert.True(t, Grade(def, raw(`"3.13"`)).IsCorrect)
	assert.True(t, Grade(def, raw(`"3.15"`)).IsCorrect)
	assert.False(t, Grade(def, raw(`"3.12"`)).IsCorrect)
}

func TestGrade_OneNumber_DefaultToleranceIsExact(t *testing.T) {
	def := &Definition{
		Type:        TypeOneNumber,
		MaxPoints:   10,
		NumericRule: &NumericRule{Mode: ModeNumeric, Exact: floatPtr(8)},
	}

	assert.True(t, Grade(def, raw(`8`)).IsCorrect)
	assert.False(t, Grade(def, raw(`8.0001`)).IsCorrect, "без допуска требуется точное совпадение")
}

func TestGrade_OneNumber_EndToEndExample(t *testing.T) {
	// Сквозной пример: "8" -> правильно, "eight" -> нет
	def := &Definition{
		Type:        TypeOneNumber,
		MaxPoints:   7,
		NumericRule: &NumericRule{Mode: ModeNumeric, Exact: floatPtr(8), Tolerance: floatPtr(0)},
	}

	correct := GradeSubmission(def, raw(`"8"`))
	require.True(t, correct.IsCorrect)
	assert.Equal(t, 8.0, correct.Normalized, "нормализованный ответ — число с плавающей точкой")
	assert.Equal(t, 7, correct.PointsAwarded)

	wrong := GradeSubmission(def, raw(`"eight"`))
	require.False(t, wrong.IsCorrect)
	assert.Equal(t, "eight", wrong.Normalized, "сырое значение проходит насквозь")
	assert.Equal(t, 0, wrong.PointsAwarded)
}

// ============================================================================
// Общие свойства
// ============================================================================

func TestGradeSubmission_AllOrNothingScoring(t *testing.T) {
	// Баллы — это всегда либо 0, либо ровно MaxPoints
	def := mcqDef(0, 3)
	def.MaxPoints = 9

	assert.Equal(t, 9, GradeSubmission(def, raw(`0`)).PointsAwarded)
	assert.Equal(t, 0, GradeSubmission(def, raw(`1`)).PointsAwarded)
}

func TestGrade_IsPureAndDeterministic(t *testing.T) {
	// Два вызова с одинаковыми входами дают одинаковый вердикт
	def := textDef("Paris", " paris ")
	input := raw(`" PARIS "`)

	first := Grade(def, input)
	second := Grade(def, input)

	assert.Equal(t, first, second, "повторный вызов должен давать идентичный результат")
}

func TestGrade_UnknownTypeFallsBackToIncorrect(t *testing.T) {
	// Унаследованная снисходительность: тип вне набора — всегда неправильно,
	// сырое значение как есть, без ошибки
	def := &Definition{Type: "sequence", MaxPoints: 5}

	result := GradeSubmission(def, raw(`[1,2,3]`))

	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsAwarded)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, result.Normalized)
}

func TestGrade_DefinitionWithoutRulePanics(t *testing.T) {
	// Известный тип без правила — нарушение целостности данных (валидатор обойдён),
	// это ошибка программиста, а не пользователя
	def := &Definition{Type: TypeMCQ, MaxPoints: 5}

	assert.Panics(t, func() { Grade(def, raw(`0`)) })
}
