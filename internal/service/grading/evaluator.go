package grading

import (
	"encoding/json"
	"math"
)

// Verdict — результат проверки одного ответа.
// Normalized содержит каноничную форму ответа для сохранения и отображения;
// для неразборчивого ответа — сырое значение без изменений.
type Verdict struct {
	IsCorrect  bool        `json:"is_correct"`
	Normalized interface{} `json:"normalized_answer"`
}

// Result — итог проверки с начисленными баллами.
// Баллы начисляются по принципу "всё или ничего": MaxPoints либо 0,
// частичного зачёта нет.
type Result struct {
	IsCorrect     bool        `json:"is_correct"`
	Normalized    interface{} `json:"normalized_answer"`
	PointsAwarded int         `json:"points_awarded"`
}

// Grade проверяет сырой ответ ученика против определения шорта.
// Функция чистая и детерминированная: два вызова с одинаковыми аргументами
// дают одинаковый вердикт без наблюдаемых побочных эффектов.
//
// Неразборчивый или неожиданный ответ никогда не приводит к ошибке —
// он помечается неправильным, а сырое значение возвращается как есть.
// Тип вне поддерживаемого набора также деградирует до "неправильно"
// (унаследованная снисходительность; валидатор не даёт таким определениям
// сохраниться, поэтому сюда такой тип попадает только в обход валидации).
func Grade(def *Definition, raw json.RawMessage) Verdict {
	switch def.Type {
	case TypeMCQ:
		return gradeMCQ(def.MCQRule, raw)
	case TypeTrueFalse:
		return gradeTrueFalse(def.BooleanRule, raw)
	case TypeOneWord, TypeCodeOutput:
		return gradeText(def.TextRule, raw)
	case TypeOneNumber:
		return gradeNumeric(def.NumericRule, raw)
	default:
		return Verdict{IsCorrect: false, Normalized: echoRaw(raw)}
	}
}

// GradeSubmission — точка входа для веб-слоя: вердикт + начисленные баллы.
// Сохранение попытки и мутация счётчиков — ответственность вызывающего.
func GradeSubmission(def *Definition, raw json.RawMessage) Result {
	verdict := Grade(def, raw)
	points := 0
	if verdict.IsCorrect {
		points = def.MaxPoints
	}
	return Result{
		IsCorrect:     verdict.IsCorrect,
		Normalized:    verdict.Normalized,
		PointsAwarded: points,
	}
}

// gradeMCQ сравнивает выбранный индекс с правильным.
// Нечисловой или нецелый ответ — неправильно, сырое значение как есть.
func gradeMCQ(rule *MCQRule, raw json.RawMessage) Verdict {
	if rule == nil || rule.CorrectIndex == nil {
		panic("grading: mcq definition without rule reached the evaluator")
	}
	idx, ok := coerceIndex(raw)
	if !ok {
		return Verdict{IsCorrect: false, Normalized: echoRaw(raw)}
	}
	return Verdict{
		IsCorrect:  idx == *rule.CorrectIndex,
		Normalized: idx,
	}
}

// gradeTrueFalse снисходительно разбирает булев ответ и сравнивает с эталоном
func gradeTrueFalse(rule *BooleanRule, raw json.RawMessage) Verdict {
	if rule == nil || rule.Answer == nil {
		panic("grading: true_false definition without rule reached the evaluator")
	}
	b, ok := coerceBool(raw)
	if !ok {
		return Verdict{IsCorrect: false, Normalized: echoRaw(raw)}
	}
	return Verdict{
		IsCorrect:  b == *rule.Answer,
		Normalized: b,
	}
}

// gradeText нормализует ответ и каждый допустимый ответ одним и тем же
// конвейером и проверяет точное вхождение в множество (не подстроку)
func gradeText(rule *TextRule, raw json.RawMessage) Verdict {
	if rule == nil {
		panic("grading: text definition without rule reached the evaluator")
	}
	trim, caseInsensitive, collapseSpaces := rule.textFlags()
	normalized := normalizeText(coerceString(raw), trim, caseInsensitive, collapseSpaces)

	for _, accepted := range rule.Answers {
		if normalized == normalizeText(accepted, trim, caseInsensitive, collapseSpaces) {
			return Verdict{IsCorrect: true, Normalized: normalized}
		}
	}
	return Verdict{IsCorrect: false, Normalized: normalized}
}

// gradeNumeric сравнивает число с эталоном с учётом допуска (границы включительно)
func gradeNumeric(rule *NumericRule, raw json.RawMessage) Verdict {
	if rule == nil || rule.Exact == nil {
		panic("grading: numeric definition without rule reached the evaluator")
	}
	f, ok := coerceNumber(raw)
	if !ok {
		return Verdict{IsCorrect: false, Normalized: echoRaw(raw)}
	}

	tolerance := 0.0
	if rule.Tolerance != nil {
		tolerance = *rule.Tolerance
	}
	// Границы включительно. Сравнение с запасом на погрешность представления
	// float64: |3.13 - 3.14| даёт 0.010000000000000231, а не ровно 0.01.
	diff := math.Abs(f - *rule.Exact)
	eps := 1e-9 * math.Max(1, math.Abs(tolerance))
	return Verdict{
		IsCorrect:  diff <= tolerance+eps,
		Normalized: f,
	}
}
