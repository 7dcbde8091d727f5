package services

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// mockRepository aggregates the per-entity mocks and runs transactions
// against itself.
type mockRepository struct {
	quiz     *MockQuizRepository
	question *MockQuestionRepository
	course   *MockCourseRepository
	attempt  *MockAttemptRepository
	user     *MockUserRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quiz:     new(MockQuizRepository),
		question: new(MockQuestionRepository),
		course:   new(MockCourseRepository),
		attempt:  new(MockAttemptRepository),
		user:     new(MockUserRepository),
	}
}

func (m *mockRepository) Quiz() repositories.QuizRepository         { return m.quiz }
func (m *mockRepository) Question() repositories.QuestionRepository { return m.question }
func (m *mockRepository) Course() repositories.CourseRepository     { return m.course }
func (m *mockRepository) Attempt() repositories.AttemptRepository   { return m.attempt }
func (m *mockRepository) User() repositories.UserRepository         { return m.user }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== QUIZ =====

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) Search(ctx context.Context, query string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, query, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) UpdateStatus(ctx context.Context, id uint, status models.QuizStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockQuizRepository) IsOwner(ctx context.Context, quizID, userID uint) (bool, error) {
	args := m.Called(ctx, quizID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) GetStats(ctx context.Context, id uint) (*repositories.QuizStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.QuizStats), args.Error(1)
}

func (m *MockQuizRepository) GetTutorStats(ctx context.Context, tutorID uint) (*repositories.TutorStats, error) {
	args := m.Called(ctx, tutorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.TutorStats), args.Error(1)
}

func (m *MockQuizRepository) ExistsByTitle(ctx context.Context, title string, creatorID uint, excludeID *uint) (bool, error) {
	args := m.Called(ctx, title, creatorID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) HasAttempts(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ===== QUESTION =====

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) SyncQuizQuestions(ctx context.Context, quizID uint, questions []*models.Question) error {
	args := m.Called(ctx, quizID, questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) ReplaceOptions(ctx context.Context, questionID uint, options []models.QuestionOption) error {
	args := m.Called(ctx, questionID, options)
	return args.Error(0)
}

func (m *MockQuestionRepository) ReplacePairs(ctx context.Context, questionID uint, pairs []models.DragDropPair) error {
	args := m.Called(ctx, questionID, pairs)
	return args.Error(0)
}

func (m *MockQuestionRepository) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(int64), args.Error(1)
}

// ===== COURSE =====

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) ExistsByCode(ctx context.Context, code string, excludeID *uint) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

// ===== ATTEMPT =====

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByQuiz(ctx context.Context, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, quizID, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) CountByTutor(ctx context.Context, tutorID uint) (int64, error) {
	args := m.Called(ctx, tutorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) AverageScore(ctx context.Context, quizID uint) (float64, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAttemptRepository) StatsByQuiz(ctx context.Context, quizID uint, passingMarks int) (*repositories.AttemptStats, error) {
	args := m.Called(ctx, quizID, passingMarks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.AttemptStats), args.Error(1)
}

// ===== USER =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetRole(ctx context.Context, id uint) (models.UserRole, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserRole), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
