package entity

import (
	"time"
)

// Note представляет заметку в ленте
type Note struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	ClassroomID *uint  `gorm:"index" json:"classroom_id,omitempty"` // NULL = личная лента автора
	Title       string `gorm:"size:200;not null" json:"title"`
	Body        string `gorm:"type:text;not null" json:"body"`

	// URL вложения во внешнем blob-хранилище (само хранилище вне этого сервиса)
	AttachmentURL string `gorm:"size:255;not null;default:''" json:"attachment_url,omitempty"`

	LikesCount int64 `gorm:"not null;default:0" json:"likes_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Note) TableName() string {
	return "notes"
}

// NoteLike представляет лайк заметки пользователем
type NoteLike struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	NoteID uint `gorm:"not null;index;uniqueIndex:idx_note_likes_once" json:"note_id"`
	UserID uint `gorm:"not null;index;uniqueIndex:idx_note_likes_once" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (NoteLike) TableName() string {
	return "note_likes"
}
