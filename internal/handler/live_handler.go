package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/service"
)

// LiveHandler обрабатывает запросы живых видеозанятий
type LiveHandler struct {
	liveService *service.LiveService
}

// NewLiveHandler создает новый обработчик живых занятий
func NewLiveHandler(liveService *service.LiveService) *LiveHandler {
	return &LiveHandler{liveService: liveService}
}

// Start открывает живую сессию класса
func (h *LiveHandler) Start(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, token, err := h.liveService.Start(classroomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session, "room_token": token})
}

// Join выдает токен доступа к активной сессии класса
func (h *LiveHandler) Join(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, token, err := h.liveService.Join(classroomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "room_token": token})
}

// End завершает живую сессию
func (h *LiveHandler) End(c *gin.Context) {
	sessionID, ok := uintParam(c, "sessionID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.liveService.End(sessionID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Live session ended"})
}

// History возвращает прошлые сессии класса
func (h *LiveHandler) History(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	sessions, err := h.liveService.History(classroomID, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "page": page, "per_page": pageSize})
}
