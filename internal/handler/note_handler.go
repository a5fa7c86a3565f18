package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/classroom-api/internal/handler/dto"
	"github.com/yourusername/classroom-api/internal/service"
)

// NoteHandler обрабатывает запросы, связанные с заметками и лентой
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler создает новый обработчик заметок
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// Create обрабатывает запрос на создание заметки
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteService.Create(userID, service.CreateNoteInput{
		Title:         req.Title,
		Body:          req.Body,
		AttachmentURL: req.AttachmentURL,
		ClassroomID:   req.ClassroomID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// Get возвращает заметку по ID
func (h *NoteHandler) Get(c *gin.Context) {
	noteID, ok := uintParam(c, "noteID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	note, err := h.noteService.GetByID(noteID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete удаляет заметку
func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, ok := uintParam(c, "noteID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.noteService.Delete(noteID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

// ListByAuthor возвращает заметки пользователя
func (h *NoteHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	notes, err := h.noteService.ListByAuthor(authorID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes, "page": page, "per_page": pageSize})
}

// ListByClassroom возвращает заметки класса
func (h *NoteHandler) ListByClassroom(c *gin.Context) {
	classroomID, ok := uintParam(c, "classroomID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	notes, total, err := h.noteService.ListByClassroom(classroomID, userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &dto.PaginatedNotesResponse{
		Notes:   notes,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	})
}

// GetFeed возвращает ленту текущего пользователя
func (h *NoteHandler) GetFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)

	notes, err := h.noteService.GetFeed(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes, "page": page, "per_page": pageSize})
}

// Like ставит лайк заметке
func (h *NoteHandler) Like(c *gin.Context) {
	noteID, ok := uintParam(c, "noteID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	note, err := h.noteService.Like(noteID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// Unlike снимает лайк с заметки
func (h *NoteHandler) Unlike(c *gin.Context) {
	noteID, ok := uintParam(c, "noteID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	note, err := h.noteService.Unlike(noteID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}
