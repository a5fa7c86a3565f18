package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONRaw - пользовательский тип для работы с JSONB-колонками произвольной формы.
// Хранит сырой JSON без промежуточного декодирования: payload и validation_rule
// шорта декодируются только движком проверки.
type JSONRaw json.RawMessage

// Scan реализует интерфейс sql.Scanner для JSONRaw
// Используется GORM для чтения JSONB данных из базы
func (j *JSONRaw) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	*j = make(JSONRaw, len(bytes))
	copy(*j, bytes)
	return nil
}

// Value реализует интерфейс driver.Valuer для JSONRaw
// Используется GORM для записи JSONRaw в JSONB в базе
func (j JSONRaw) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// MarshalJSON отдает сырой JSON как есть
func (j JSONRaw) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON сохраняет сырой JSON без декодирования
func (j *JSONRaw) UnmarshalJSON(data []byte) error {
	*j = make(JSONRaw, len(data))
	copy(*j, data)
	return nil
}

// Short представляет определение вопроса-шорта.
// Создается один раз при авторинге и неизменяемо после сохранения:
// пути обновления нет, только чтение при проверке ответов.
type Short struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	ClassroomID *uint  `gorm:"index" json:"classroom_id,omitempty"` // NULL = публичный шорт вне класса
	Title       string `gorm:"size:200;not null" json:"title"`
	Type        string `gorm:"size:20;not null;index" json:"type"`

	// Payload показывается ученику, ValidationRule скрыт от клиента
	Payload        JSONRaw `gorm:"type:jsonb;not null" json:"payload"`
	ValidationRule JSONRaw `gorm:"type:jsonb;not null" json:"-"`

	TimeLimitSec int `gorm:"not null;default:30" json:"time_limit_sec"`
	MaxPoints    int `gorm:"not null;default:5" json:"max_points"`

	// Денормализованные счётчики попыток
	AttemptsCount int64 `gorm:"not null;default:0" json:"attempts_count"`
	CorrectCount  int64 `gorm:"not null;default:0" json:"correct_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Short) TableName() string {
	return "shorts"
}

// ShortAttempt представляет одну попытку ответа на шорт.
// Создается ровно один раз на проверку и никогда не мутируется.
// Политика "одна попытка на ученика" обеспечивается уникальным индексом,
// а не движком проверки.
type ShortAttempt struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	ShortID uint `gorm:"not null;index;uniqueIndex:idx_short_attempts_once" json:"short_id"`
	UserID  uint `gorm:"not null;index;uniqueIndex:idx_short_attempts_once" json:"user_id"`

	// Сырой ответ как прислал клиент и каноничная форма после нормализации
	RawAnswer        JSONRaw `gorm:"type:jsonb;not null" json:"raw_answer"`
	NormalizedAnswer JSONRaw `gorm:"type:jsonb;not null" json:"normalized_answer"`

	IsCorrect bool `gorm:"not null" json:"is_correct"`
	// Всегда 0 либо ровно MaxPoints шорта — частичного зачёта нет
	PointsAwarded int `gorm:"not null;default:0" json:"points_awarded"`
	// Записывается как факт, движком проверки не контролируется
	TimeTakenMs int64 `gorm:"not null;default:0" json:"time_taken_ms"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ShortAttempt) TableName() string {
	return "short_attempts"
}
