package entity

import (
	"time"
)

// Роли участников класса
const (
	MemberRoleOwner   = "owner"
	MemberRoleStudent = "student"
)

// Classroom представляет учебный класс
type Classroom struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Subject     string `gorm:"size:100;not null;default:''" json:"subject"`
	Description string `gorm:"size:1000;not null;default:''" json:"description"`

	// Код приглашения для присоединения к классу
	JoinCode string `gorm:"size:36;not null;uniqueIndex" json:"join_code"`

	// Расписание ближайшего занятия
	ScheduledAt     *time.Time `gorm:"type:timestamp" json:"scheduled_at,omitempty"`
	DurationMinutes int        `gorm:"not null;default:0" json:"duration_minutes"`

	MembersCount int64 `gorm:"not null;default:0" json:"members_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Classroom) TableName() string {
	return "classrooms"
}

// HasUpcomingMeeting возвращает true, если запланировано будущее занятие
func (c *Classroom) HasUpcomingMeeting() bool {
	return c.ScheduledAt != nil && c.ScheduledAt.After(time.Now())
}

// ClassroomMember представляет членство пользователя в классе
type ClassroomMember struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClassroomID uint   `gorm:"not null;index;uniqueIndex:idx_classroom_members_once" json:"classroom_id"`
	UserID      uint   `gorm:"not null;index;uniqueIndex:idx_classroom_members_once" json:"user_id"`
	Role        string `gorm:"size:20;not null;default:'student'" json:"role"` // owner, student

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ClassroomMember) TableName() string {
	return "classroom_members"
}
