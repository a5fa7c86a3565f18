package websocket

import (
	"encoding/json"
	"time"
)

// Типы событий, рассылаемых в комнаты классов
const (
	EventNoteCreated  = "note:created"
	EventShortCreated = "short:created"
	EventLiveStarted  = "live:started"
	EventLiveEnded    = "live:ended"
	EventMemberJoined = "member:joined"
)

// Event представляет событие, рассылаемое подписчикам класса
type Event struct {
	Type        string      `json:"type"`
	ClassroomID uint        `json:"classroom_id"`
	Data        interface{} `json:"data,omitempty"`
	Timestamp   int64       `json:"timestamp"`
}

// NewEvent создает событие с текущим временем
func NewEvent(eventType string, classroomID uint, data interface{}) *Event {
	return &Event{
		Type:        eventType,
		ClassroomID: classroomID,
		Data:        data,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// Marshal сериализует событие в JSON
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
