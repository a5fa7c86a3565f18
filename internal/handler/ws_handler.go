package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/classroom-api/internal/service"
	"github.com/yourusername/classroom-api/internal/websocket"
	"github.com/yourusername/classroom-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket-подключения к комнатам классов
type WSHandler struct {
	hub              *websocket.Hub
	jwtService       *auth.JWTService
	classroomService *service.ClassroomService
}

// NewWSHandler создает новый обработчик WebSocket-подключений
func NewWSHandler(hub *websocket.Hub, jwtService *auth.JWTService, classroomService *service.ClassroomService) *WSHandler {
	return &WSHandler{
		hub:              hub,
		jwtService:       jwtService,
		classroomService: classroomService,
	}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin пустой у небраузерных клиентов (мобильное приложение, curl)
		return true
	},
}

// HandleConnection обрабатывает входящее WebSocket соединение.
// Токен передается query-параметром, т.к. браузерный WebSocket API
// не позволяет выставить заголовок Authorization.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication token parameter"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	classroomID, exists := c.Get("classroomID")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing classroom ID"})
		return
	}

	isMember, err := h.classroomService.IsMember(classroomID.(uint), claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this classroom"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Error upgrading connection: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.UserID, classroomID.(uint))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
