package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисов
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ids []uint) ([]entity.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyAttemptResult(userID uint, isCorrect bool, points int) error {
	args := m.Called(userID, isCorrect, points)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// MockShortRepository реализует repository.ShortRepository
type MockShortRepository struct {
	mock.Mock
}

func (m *MockShortRepository) Create(short *entity.Short) error {
	args := m.Called(short)
	return args.Error(0)
}

func (m *MockShortRepository) GetByID(id uint) (*entity.Short, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Short), args.Error(1)
}

func (m *MockShortRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockShortRepository) ListByClassroom(classroomID uint, limit, offset int) ([]entity.Short, int64, error) {
	args := m.Called(classroomID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Short), args.Get(1).(int64), args.Error(2)
}

func (m *MockShortRepository) ListByAuthor(authorID uint, limit, offset int) ([]entity.Short, error) {
	args := m.Called(authorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Short), args.Error(1)
}

func (m *MockShortRepository) CreateAttempt(attempt *entity.ShortAttempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockShortRepository) GetAttempt(shortID, userID uint) (*entity.ShortAttempt, error) {
	args := m.Called(shortID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ShortAttempt), args.Error(1)
}

func (m *MockShortRepository) ListAttempts(shortID uint, limit, offset int) ([]entity.ShortAttempt, int64, error) {
	args := m.Called(shortID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.ShortAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockShortRepository) GetStats(shortID uint) (*repository.ShortStats, error) {
	args := m.Called(shortID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ShortStats), args.Error(1)
}

// MockClassroomRepository реализует repository.ClassroomRepository
type MockClassroomRepository struct {
	mock.Mock
}

func (m *MockClassroomRepository) Create(classroom *entity.Classroom, owner *entity.ClassroomMember) error {
	args := m.Called(classroom, owner)
	return args.Error(0)
}

func (m *MockClassroomRepository) GetByID(id uint) (*entity.Classroom, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Classroom), args.Error(1)
}

func (m *MockClassroomRepository) GetByJoinCode(code string) (*entity.Classroom, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Classroom), args.Error(1)
}

func (m *MockClassroomRepository) List(limit, offset int, search string) ([]entity.Classroom, int64, error) {
	args := m.Called(limit, offset, search)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Classroom), args.Get(1).(int64), args.Error(2)
}

func (m *MockClassroomRepository) ListByMember(userID uint, limit, offset int) ([]entity.Classroom, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Classroom), args.Error(1)
}

func (m *MockClassroomRepository) UpdateSchedule(classroomID uint, scheduledAt time.Time, durationMinutes int) error {
	args := m.Called(classroomID, scheduledAt, durationMinutes)
	return args.Error(0)
}

func (m *MockClassroomRepository) AddMember(member *entity.ClassroomMember) error {
	args := m.Called(member)
	return args.Error(0)
}

func (m *MockClassroomRepository) IsMember(classroomID, userID uint) (bool, error) {
	args := m.Called(classroomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassroomRepository) ListMembers(classroomID uint, limit, offset int) ([]entity.ClassroomMember, error) {
	args := m.Called(classroomID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ClassroomMember), args.Error(1)
}

func (m *MockClassroomRepository) MemberClassroomIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockRefreshTokenRepository реализует repository.RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *entity.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByHash(tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(tokenHash string) error {
	args := m.Called(tokenHash)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByUser(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockFollowRepository реализует repository.FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(followerID, followeeID uint) error {
	args := m.Called(followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(followerID, followeeID uint) error {
	args := m.Called(followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepository) Exists(followerID, followeeID uint) (bool, error) {
	args := m.Called(followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) ListFollowers(userID uint, limit, offset int) ([]entity.User, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockFollowRepository) ListFollowing(userID uint, limit, offset int) ([]entity.User, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockFollowRepository) FollowingIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockNoteRepository реализует repository.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(note *entity.Note) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockNoteRepository) GetByID(id uint) (*entity.Note, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockNoteRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockNoteRepository) ListByAuthor(authorID uint, limit, offset int) ([]entity.Note, error) {
	args := m.Called(authorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByClassroom(classroomID uint, limit, offset int) ([]entity.Note, int64, error) {
	args := m.Called(classroomID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Note), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoteRepository) ListFeed(authorIDs []uint, classroomIDs []uint, limit, offset int) ([]entity.Note, error) {
	args := m.Called(authorIDs, classroomIDs, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockNoteRepository) Like(noteID, userID uint) error {
	args := m.Called(noteID, userID)
	return args.Error(0)
}

func (m *MockNoteRepository) Unlike(noteID, userID uint) error {
	args := m.Called(noteID, userID)
	return args.Error(0)
}

func (m *MockNoteRepository) IsLiked(noteID, userID uint) (bool, error) {
	args := m.Called(noteID, userID)
	return args.Bool(0), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Increment(key string, window time.Duration) (int64, error) {
	args := m.Called(key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}
