package grading

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Дефолтные флаги нормализации текстовых ответов
const (
	defaultTrim            = true
	defaultCaseInsensitive = true
	defaultCollapseSpaces  = true
)

// normalizeText применяет конвейер нормализации в фиксированном порядке:
// trim -> приведение к нижнему регистру (Unicode-aware) -> схлопывание пробелов.
// Каждый шаг выполняется только при включённом флаге. Конвейер идемпотентен:
// повторная нормализация уже нормализованной строки ничего не меняет.
func normalizeText(s string, trim, caseInsensitive, collapseSpaces bool) string {
	if trim {
		s = strings.TrimSpace(s)
	}
	if caseInsensitive {
		s = strings.ToLower(s)
	}
	if collapseSpaces {
		s = collapseSpaceRuns(s)
	}
	return s
}

// collapseSpaceRuns заменяет каждую последовательность пробельных символов
// одним пробелом, не трогая границы строки: обрезка краёв — работа флага trim.
func collapseSpaceRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inRun = true
			continue
		}
		if inRun {
			b.WriteByte(' ')
			inRun = false
		}
		b.WriteRune(r)
	}
	if inRun {
		b.WriteByte(' ')
	}
	return b.String()
}

// textFlags возвращает эффективные флаги нормализации правила
// (отсутствующий флаг означает значение по умолчанию — true)
func (r *TextRule) textFlags() (trim, caseInsensitive, collapseSpaces bool) {
	trim, caseInsensitive, collapseSpaces = defaultTrim, defaultCaseInsensitive, defaultCollapseSpaces
	if r.Trim != nil {
		trim = *r.Trim
	}
	if r.CaseInsensitive != nil {
		caseInsensitive = *r.CaseInsensitive
	}
	if r.CollapseSpaces != nil {
		collapseSpaces = *r.CollapseSpaces
	}
	return trim, caseInsensitive, collapseSpaces
}

// coerceString приводит сырой JSON-ответ к строке.
// Строка берётся как есть, прочие JSON-значения — в их текстовом представлении.
func coerceString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// coerceNumber приводит сырой JSON-ответ к float64.
// Принимает как JSON-число, так и строку с числом ("8", " 3.14 ").
func coerceNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// coerceIndex приводит сырой JSON-ответ к целочисленному индексу варианта.
// Нецелые числа отклоняются: "1.5" не является валидным индексом.
func coerceIndex(raw json.RawMessage) (int, bool) {
	f, ok := coerceNumber(raw)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int(f), true
}

// coerceBool разбирает ответ как булево значение максимально снисходительно:
// нативные true/false, строки "true"/"false", "1"/"0", числа 1/0.
func coerceBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		switch f {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

// echoRaw возвращает сырое значение ответа "как есть" для сохранения и отображения.
// Невалидный JSON отдаётся строкой, чтобы не потерять данные.
func echoRaw(raw json.RawMessage) interface{} {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
