package dto

import (
	"time"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// CreateClassroomRequest содержит данные создания класса
type CreateClassroomRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Subject     string `json:"subject" binding:"max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// JoinClassroomRequest содержит код приглашения
type JoinClassroomRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

// ScheduleMeetingRequest содержит данные назначения занятия
type ScheduleMeetingRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=5,max=480"`
}

// InviteRequest содержит email приглашаемого
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PaginatedClassroomsResponse представляет пагинированный список классов
type PaginatedClassroomsResponse struct {
	Classrooms []entity.Classroom `json:"classrooms"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
}
