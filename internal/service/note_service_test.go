package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/classroom-api/internal/pkg/errors"
)

func uintPtrForNotes(v uint) *uint {
	return &v
}

func TestNoteService_Create_ClassroomMemberOnly(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, nil, nil)

	mockClassroomRepo.On("IsMember", uint(7), uint(2)).Return(false, nil)

	// Act
	note, err := noteService.Create(2, CreateNoteInput{
		Title:       "Конспект",
		Body:        "Содержимое",
		ClassroomID: uintPtrForNotes(7),
	})

	// Assert
	require.Error(t, err, "Публиковать в класс могут только его участники")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden), "Ожидается ErrForbidden")
	assert.Nil(t, note)
	mockNoteRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestNoteService_Create_EmptyBodyRejected(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, nil, nil)

	// Act
	_, err := noteService.Create(2, CreateNoteInput{Title: "Только заголовок", Body: "   "})

	// Assert
	require.Error(t, err, "Заметка без текста должна отклоняться")
	assert.True(t, errors.Is(err, apperrors.ErrValidation), "Ожидается ErrValidation")
	mockNoteRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestNoteService_GetFeed_CacheMiss(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	mockCacheRepo := new(MockCacheRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, mockCacheRepo, nil)

	feed := []entity.Note{{ID: 1, AuthorID: 5, Title: "Из подписки"}}
	mockCacheRepo.On("GetJSON", "feed:2:10:0", mock.Anything).Return(apperrors.ErrNotFound)
	mockFollowRepo.On("FollowingIDs", uint(2)).Return([]uint{5}, nil)
	mockClassroomRepo.On("MemberClassroomIDs", uint(2)).Return([]uint{7}, nil)
	mockNoteRepo.On("ListFeed", []uint{5}, []uint{7}, 10, 0).Return(feed, nil)
	mockCacheRepo.On("SetJSON", "feed:2:10:0", feed, feedCacheTTL).Return(nil)

	// Act
	got, err := noteService.GetFeed(2, 1, 10)

	// Assert
	require.NoError(t, err, "Промах кеша должен приводить к запросу в БД")
	assert.Len(t, got, 1)
	mockNoteRepo.AssertExpectations(t)
	mockCacheRepo.AssertExpectations(t)
}

func TestNoteService_GetFeed_CacheHit(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	mockCacheRepo := new(MockCacheRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, mockCacheRepo, nil)

	mockCacheRepo.On("GetJSON", "feed:2:10:0", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*[]entity.Note)
			*dest = []entity.Note{{ID: 9, Title: "Из кеша"}}
		}).Return(nil)

	// Act
	got, err := noteService.GetFeed(2, 1, 10)

	// Assert
	require.NoError(t, err, "Попадание в кеш должно обходиться без БД")
	require.Len(t, got, 1)
	assert.Equal(t, uint(9), got[0].ID)
	mockNoteRepo.AssertNotCalled(t, "ListFeed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockFollowRepo.AssertNotCalled(t, "FollowingIDs", mock.Anything)
}

func TestNoteService_GetFeed_SecondPageSkipsCache(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	mockCacheRepo := new(MockCacheRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, mockCacheRepo, nil)

	mockFollowRepo.On("FollowingIDs", uint(2)).Return([]uint{5}, nil)
	mockClassroomRepo.On("MemberClassroomIDs", uint(2)).Return([]uint{}, nil)
	mockNoteRepo.On("ListFeed", []uint{5}, []uint{}, 10, 10).Return([]entity.Note{}, nil)

	// Act
	_, err := noteService.GetFeed(2, 2, 10)

	// Assert
	require.NoError(t, err)
	mockCacheRepo.AssertNotCalled(t, "GetJSON", mock.Anything, mock.Anything)
	mockCacheRepo.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything)
}

func TestNoteService_Like_AlreadyLiked(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, nil, nil)

	note := &entity.Note{ID: 1, AuthorID: 5, Title: "Заметка"}
	mockNoteRepo.On("GetByID", uint(1)).Return(note, nil)
	mockNoteRepo.On("Like", uint(1), uint(2)).Return(apperrors.ErrConflict)

	// Act
	_, err := noteService.Like(1, 2)

	// Assert
	require.Error(t, err, "Повторный лайк должен отклоняться")
	assert.True(t, errors.Is(err, apperrors.ErrConflict), "Ожидается ErrConflict")
}

func TestNoteService_Delete_AuthorOnly(t *testing.T) {
	// Arrange
	mockNoteRepo := new(MockNoteRepository)
	mockClassroomRepo := new(MockClassroomRepository)
	mockFollowRepo := new(MockFollowRepository)
	noteService := NewNoteService(mockNoteRepo, mockClassroomRepo, mockFollowRepo, nil, nil)

	note := &entity.Note{ID: 1, AuthorID: 5}
	mockNoteRepo.On("GetByID", uint(1)).Return(note, nil)

	// Act
	err := noteService.Delete(1, 2)

	// Assert
	require.Error(t, err, "Удалять заметку может только автор")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden), "Ожидается ErrForbidden")
	mockNoteRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
