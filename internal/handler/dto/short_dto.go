package dto

import (
	"encoding/json"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// CreateShortRequest содержит определение шорта при авторинге.
// Payload и ValidationRule передаются сырым JSON и проверяются движком.
type CreateShortRequest struct {
	Title          string          `json:"title" binding:"required,min=1,max=200"`
	Type           string          `json:"type" binding:"required"`
	Payload        json.RawMessage `json:"payload"`
	ValidationRule json.RawMessage `json:"validation_rule" binding:"required"`
	TimeLimitSec   int             `json:"time_limit_sec" binding:"required"`
	MaxPoints      int             `json:"max_points" binding:"required"`
	ClassroomID    *uint           `json:"classroom_id"`
}

// SubmitAnswerRequest содержит ответ ученика.
// Answer принимает любую JSON-форму: строку, число, булево значение.
type SubmitAnswerRequest struct {
	Answer      json.RawMessage `json:"answer"`
	TimeTakenMs int64           `json:"time_taken_ms" binding:"omitempty,min=0"`
}

// AttemptResponse представляет результат попытки для ответа клиенту
type AttemptResponse struct {
	ShortID          uint            `json:"short_id"`
	IsCorrect        bool            `json:"is_correct"`
	PointsAwarded    int             `json:"points_awarded"`
	NormalizedAnswer json.RawMessage `json:"normalized_answer"`
	TimeTakenMs      int64           `json:"time_taken_ms"`
}

// NewAttemptResponse создает DTO для попытки
func NewAttemptResponse(attempt *entity.ShortAttempt) *AttemptResponse {
	return &AttemptResponse{
		ShortID:          attempt.ShortID,
		IsCorrect:        attempt.IsCorrect,
		PointsAwarded:    attempt.PointsAwarded,
		NormalizedAnswer: json.RawMessage(attempt.NormalizedAnswer),
		TimeTakenMs:      attempt.TimeTakenMs,
	}
}

// PaginatedShortsResponse представляет пагинированный список шортов
type PaginatedShortsResponse struct {
	Shorts  []entity.Short `json:"shorts"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// PaginatedAttemptsResponse представляет пагинированный список попыток
type PaginatedAttemptsResponse struct {
	Attempts []entity.ShortAttempt `json:"attempts"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PerPage  int                   `json:"per_page"`
}
