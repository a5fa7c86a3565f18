package dto

import (
	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// CreateNoteRequest содержит данные создания заметки
type CreateNoteRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=200"`
	Body          string `json:"body" binding:"required,min=1"`
	AttachmentURL string `json:"attachment_url" binding:"omitempty,url,max=255"`
	ClassroomID   *uint  `json:"classroom_id"`
}

// PaginatedNotesResponse представляет пагинированный список заметок
type PaginatedNotesResponse struct {
	Notes   []entity.Note `json:"notes"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}
