package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/handler/dto"
	"github.com/yourusername/classroom-api/internal/service"
)

// ClassroomHandler обрабатывает запросы, связанные с классами
type ClassroomHandler struct {
	classroomService *service.ClassroomService
}

// NewClassroomHandler создает новый обработчик классов
func NewClassroomHandler(classroomService *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

// Create обрабатывает запрос на создание класса
func (h *ClassroomHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.Create(userID, service.CreateClassroomInput{
		Name:        req.Name,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, classroom)
}

// Get возвращает класс по ID
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}

	classroom, err := h.classroomService.GetByID(classroomID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// List возвращает список классов с поиском
func (h *ClassroomHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	search := c.Query("search")

	classrooms, total, err := h.classroomService.List(page, pageSize, search)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.PaginatedClassroomsResponse{
		Classrooms: classrooms,
		Total:      total,
		Page:       page,
		PerPage:    pageSize,
	})
}

// ListMine возвращает классы текущего пользователя
func (h *ClassroomHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	classrooms, err := h.classroomService.ListMine(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classrooms": classrooms, "page": page, "per_page": pageSize})
}

// Join добавляет текущего пользователя в класс по коду приглашения
func (h *ClassroomHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.JoinClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.Join(userID, req.JoinCode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// ListMembers возвращает участников класса
func (h *ClassroomHandler) ListMembers(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	members, err := h.classroomService.ListMembers(classroomID, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members, "page": page, "per_page": pageSize})
}

// Schedule назначает время следующего занятия
func (h *ClassroomHandler) Schedule(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.Schedule(classroomID, userID, req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// Invite отправляет приглашение в класс по email
func (h *ClassroomHandler) Invite(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.classroomService.Invite(c.Request.Context(), classroomID, userID, req.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation sent"})
}
