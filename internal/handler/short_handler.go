package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/handler/dto"
	"github.com/yourusername/classroom-api/internal/service"
)

// ShortHandler обрабатывает запросы, связанные с шортами и попытками
type ShortHandler struct {
	shortService *service.ShortService
}

// NewShortHandler создает новый обработчик шортов
func NewShortHandler(shortService *service.ShortService) *ShortHandler {
	return &ShortHandler{shortService: shortService}
}

// Create обрабатывает запрос на создание шорта
func (h *ShortHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateShortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	short, err := h.shortService.Create(userID, service.CreateShortInput{
		Title:          req.Title,
		Type:           req.Type,
		Payload:        req.Payload,
		ValidationRule: req.ValidationRule,
		TimeLimitSec:   req.TimeLimitSec,
		MaxPoints:      req.MaxPoints,
		ClassroomID:    req.ClassroomID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, short)
}

// Get возвращает шорт по ID.
// Правило проверки не сериализуется в ответ и остается скрытым от клиента.
func (h *ShortHandler) Get(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	short, err := h.shortService.GetByID(shortID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, short)
}

// Delete удаляет шорт
func (h *ShortHandler) Delete(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.shortService.Delete(shortID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Short deleted"})
}

// ListByClassroom возвращает шорты класса
func (h *ShortHandler) ListByClassroom(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	shorts, total, err := h.shortService.ListByClassroom(classroomID, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.PaginatedShortsResponse{
		Shorts:  shorts,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	})
}

// ListMine возвращает шорты текущего автора
func (h *ShortHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	shorts, err := h.shortService.ListByAuthor(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shorts": shorts, "page": page, "per_page": pageSize})
}

// Submit обрабатывает отправку ответа на шорт
func (h *ShortHandler) Submit(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.shortService.Submit(shortID, userID, req.Answer, req.TimeTakenMs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt))
}

// GetMyAttempt возвращает попытку текущего пользователя по шорту
func (h *ShortHandler) GetMyAttempt(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attempt, err := h.shortService.GetMyAttempt(shortID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}

// ListAttempts возвращает попытки по шорту (только автор)
func (h *ShortHandler) ListAttempts(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	attempts, total, err := h.shortService.ListAttempts(shortID, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.PaginatedAttemptsResponse{
		Attempts: attempts,
		Total:    total,
		Page:     page,
		PerPage:  pageSize,
	})
}

// GetStats возвращает агрегированную статистику по шорту (только автор)
func (h *ShortHandler) GetStats(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.shortService.GetStats(shortID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportAttempts выгружает попытки по шорту в xlsx (только автор)
func (h *ShortHandler) ExportAttempts(c *gin.Context) {
	shortID, ok := uintParam(c, "shortID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.shortService.ExportAttempts(shortID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
