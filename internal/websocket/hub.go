package websocket

import (
	"log"
)

// Hub ведет учет подключенных клиентов и рассылает события по комнатам классов.
// Все изменения карты клиентов происходят в одной горутине Run.
type Hub struct {
	// Клиенты, сгруппированные по ID класса
	rooms map[uint]map[*Client]bool

	broadcast  chan *roomMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

type roomMessage struct {
	classroomID uint
	payload     []byte
}

// NewHub создает новый hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]bool),
		broadcast:  make(chan *roomMessage, 256),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

// Run запускает цикл обработки hub. Вызывается в отдельной горутине.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			room, ok := h.rooms[client.ClassroomID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.ClassroomID] = room
			}
			room[client] = true
			log.Printf("[WebSocket] Client %s (user #%d) joined classroom room #%d (%d clients)",
				client.ConnectionID, client.UserID, client.ClassroomID, len(room))

		case client := <-h.unregister:
			if room, ok := h.rooms[client.ClassroomID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.ClassroomID)
					}
					log.Printf("[WebSocket] Client %s left classroom room #%d", client.ConnectionID, client.ClassroomID)
				}
			}

		case message := <-h.broadcast:
			room, ok := h.rooms[message.classroomID]
			if !ok {
				continue
			}
			for client := range room {
				select {
				case client.send <- message.payload:
				default:
					// Буфер клиента переполнен, отключаем его
					delete(room, client)
					close(client.send)
				}
			}

		case <-h.done:
			for classroomID, room := range h.rooms {
				for client := range room {
					close(client.send)
				}
				delete(h.rooms, classroomID)
			}
			return
		}
	}
}

// Register добавляет клиента в комнату его класса
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// BroadcastEvent рассылает событие всем подписчикам класса
func (h *Hub) BroadcastEvent(event *Event) {
	payload, err := event.Marshal()
	if err != nil {
		log.Printf("[WebSocket] Failed to marshal event %s: %v", event.Type, err)
		return
	}
	select {
	case h.broadcast <- &roomMessage{classroomID: event.ClassroomID, payload: payload}:
	default:
		log.Printf("[WebSocket] Broadcast buffer full, dropping event %s for classroom #%d",
			event.Type, event.ClassroomID)
	}
}

// Shutdown останавливает hub и закрывает все клиентские каналы
func (h *Hub) Shutdown() {
	close(h.done)
}
