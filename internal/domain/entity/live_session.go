package entity

import (
	"time"
)

// Статусы живой сессии
const (
	LiveSessionStatusActive = "active"
	LiveSessionStatusEnded  = "ended"
)

// LiveSession представляет живое видеозанятие класса.
// Сам видеопоток обслуживается внешним провайдером; здесь хранится только
// идентификатор комнаты и учёт того, кто и когда сессию открыл.
type LiveSession struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClassroomID uint   `gorm:"not null;index" json:"classroom_id"`
	StartedBy   uint   `gorm:"not null" json:"started_by"`
	RoomID      string `gorm:"size:36;not null;uniqueIndex" json:"room_id"` // UUID комнаты у провайдера
	Status      string `gorm:"size:20;not null;default:'active'" json:"status"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `gorm:"type:timestamp" json:"ended_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (LiveSession) TableName() string {
	return "live_sessions"
}

// IsActive возвращает true, пока сессия не завершена
func (s *LiveSession) IsActive() bool {
	return s.Status == LiveSessionStatusActive
}
