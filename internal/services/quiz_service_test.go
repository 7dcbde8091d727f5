package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/brightpath-edu/tutor-portal/internal/events"
	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/validator"
	"github.com/brightpath-edu/tutor-portal/pkg/monitoring"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestQuizService(repo *mockRepository, publisher events.EventPublisher) QuizService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewQuizService(repo, nil, publisher, logger, validator.New())
}

func activeCourse(id uint) *models.Course {
	return &models.Course{ID: id, Name: "Algebra", Code: "ALG-101", TutorID: 10, IsActive: true}
}

func TestQuizService_Create_DerivesCorrectAnswer(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher()
	service := newTestQuizService(repo, publisher)
	ctx := context.Background()

	req := &CreateQuizRequest{
		Title:        "Midterm",
		CourseID:     1,
		PassingMarks: 50,
		Questions: []QuestionRequest{
			{
				Type: models.QuestionMCQ,
				Text: "Pick the right answer",
				Options: []QuestionOptionRequest{
					{Text: "A", IsCorrect: true},
					{Text: "B", IsCorrect: false},
				},
			},
		},
	}

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.course.On("GetByID", ctx, uint(1)).Return(activeCourse(1), nil)
	repo.quiz.On("ExistsByTitle", ctx, "Midterm", uint(10), (*uint)(nil)).Return(false, nil)

	repo.quiz.On("Create", ctx, mock.AnythingOfType("*models.Quiz")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Quiz).ID = 42
		}).
		Return(nil)

	var synced []*models.Question
	repo.question.On("SyncQuizQuestions", ctx, uint(42), mock.Anything).
		Run(func(args mock.Arguments) {
			synced = args.Get(2).([]*models.Question)
		}).
		Return(nil)

	repo.quiz.On("IsOwner", ctx, uint(42), uint(10)).Return(true, nil)
	repo.quiz.On("GetByIDWithQuestions", ctx, uint(42)).Return(&models.Quiz{
		ID:       42,
		Title:    "Midterm",
		CourseID: 1,
		Status:   models.StatusDraft,
		Questions: []models.Question{
			{
				ID:            7,
				QuizID:        42,
				Type:          models.QuestionMCQ,
				Text:          "Pick the right answer",
				CorrectAnswer: "A",
				Position:      1,
				Options: []models.QuestionOption{
					{ID: 1, Text: "A", IsCorrect: true, Position: 1},
					{ID: 2, Text: "B", IsCorrect: false, Position: 2},
				},
			},
		},
	}, nil)

	resp, err := service.Create(ctx, req, 10)
	require.NoError(t, err)

	require.Len(t, synced, 1)
	assert.Equal(t, "A", synced[0].CorrectAnswer, "correct answer is derived server-side")
	assert.Equal(t, 1, synced[0].Position)

	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "A", resp.Questions[0].CorrectAnswer)
	assert.Equal(t, models.StatusDraft, resp.Status)
}

func TestQuizService_Create_FirstViolationWins(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)

	// Second question's MCQ has no correct option; the message must carry
	// its 1-based position.
	req := &CreateQuizRequest{
		Title:        "Midterm",
		CourseID:     1,
		PassingMarks: 50,
		Questions: []QuestionRequest{
			{Type: models.QuestionShortAnswer, Text: "Define x", ExpectedAnswer: stringPtr("variable")},
			{
				Type: models.QuestionMCQ,
				Text: "Pick one",
				Options: []QuestionOptionRequest{
					{Text: "A"}, {Text: "B"},
				},
			},
		},
	}

	_, err := service.Create(ctx, req, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Question 2")

	repo.quiz.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuizService_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.QuizStatus
		publish bool // false means archive
		wantErr bool
		noop    bool // already at target, succeeds without writes
	}{
		{"draft to published", models.StatusDraft, true, false, false},
		{"published to archived", models.StatusPublished, false, false, false},
		{"archived to published", models.StatusArchived, true, false, false},
		{"draft to archived rejected", models.StatusDraft, false, true, false},
		{"published to published is a no-op", models.StatusPublished, true, false, true},
		{"archived to archived is a no-op", models.StatusArchived, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			publisher := events.NewMockEventPublisher()
			service := newTestQuizService(repo, publisher)
			ctx := context.Background()

			quiz := &models.Quiz{
				ID:       5,
				Title:    "Weekly quiz",
				CourseID: 1,
				Status:   tt.from,
				Course:   *activeCourse(1),
			}

			repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
			repo.quiz.On("GetByID", ctx, uint(5)).Return(quiz, nil)
			repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)

			target := models.StatusArchived
			if tt.publish {
				target = models.StatusPublished
			}

			if !tt.wantErr && !tt.noop {
				if tt.from == models.StatusDraft {
					repo.question.On("GetByQuiz", ctx, uint(5)).Return([]*models.Question{
						{Type: models.QuestionShortAnswer, Text: "Define x", CorrectAnswer: "variable", Position: 1},
					}, nil)
				}
				repo.quiz.On("UpdateStatus", ctx, uint(5), target).
					Run(func(mock.Arguments) { quiz.Status = target }).
					Return(nil)
			}

			var err error
			if tt.publish {
				_, err = service.Publish(ctx, 5, 10)
			} else {
				_, err = service.Archive(ctx, 5, 10)
			}

			if tt.wantErr {
				require.ErrorIs(t, err, ErrQuizInvalidTransition)
				repo.quiz.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				assert.Empty(t, publisher.GetPublishedEvents())
				return
			}

			if tt.noop {
				require.NoError(t, err)
				repo.quiz.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				assert.Empty(t, publisher.GetPublishedEvents())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, target, quiz.Status)

			published := publisher.GetPublishedEvents()
			require.Len(t, published, 1)
			if tt.publish {
				assert.Equal(t, events.EventQuizPublished, published[0].Type)
			} else {
				assert.Equal(t, events.EventQuizArchived, published[0].Type)
			}
		})
	}
}

func TestQuizService_Publish_DraftMustValidate(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	quiz := &models.Quiz{ID: 5, Title: "Empty quiz", CourseID: 1, Status: models.StatusDraft}

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.quiz.On("GetByID", ctx, uint(5)).Return(quiz, nil)
	repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)
	repo.question.On("GetByQuiz", ctx, uint(5)).Return([]*models.Question{}, nil)

	_, err := service.Publish(ctx, 5, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one question")
	repo.quiz.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizService_Delete_Idempotent(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher()
	service := newTestQuizService(repo, publisher)
	ctx := context.Background()

	quiz := &models.Quiz{ID: 5, Title: "Old quiz", CourseID: 1, Status: models.StatusDraft, CreatedBy: 10}

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.quiz.On("GetByID", ctx, uint(5)).Return(quiz, nil).Once()
	repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)
	repo.quiz.On("HasAttempts", ctx, uint(5)).Return(false, nil)
	repo.quiz.On("Delete", ctx, uint(5)).Return(nil)

	require.NoError(t, service.Delete(ctx, 5, 10))

	// The quiz is gone now; deleting again converges on the same state.
	repo.quiz.On("GetByID", ctx, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	require.NoError(t, service.Delete(ctx, 5, 10))

	repo.quiz.AssertNumberOfCalls(t, "Delete", 1)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuizDeleted, published[0].Type)
}

func TestQuizService_Delete_BlockedByAttempts(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	quiz := &models.Quiz{ID: 5, Title: "Taken quiz", CourseID: 1, Status: models.StatusPublished, CreatedBy: 10}

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.quiz.On("GetByID", ctx, uint(5)).Return(quiz, nil)
	repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)
	repo.quiz.On("HasAttempts", ctx, uint(5)).Return(true, nil)

	err := service.Delete(ctx, 5, 10)
	require.ErrorIs(t, err, ErrQuizNotDeletable)
	repo.quiz.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestQuizService_Update_ArchivedNotEditable(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	quiz := &models.Quiz{ID: 5, Title: "Frozen", CourseID: 1, Status: models.StatusArchived, CreatedBy: 10}

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.quiz.On("GetByID", ctx, uint(5)).Return(quiz, nil)
	repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)

	req := &UpdateQuizRequest{
		Title:        "Frozen",
		CourseID:     1,
		PassingMarks: 40,
		Questions: []QuestionRequest{
			{Type: models.QuestionShortAnswer, Text: "Define y", ExpectedAnswer: stringPtr("axis")},
		},
	}

	_, err := service.Update(ctx, 5, req, 10)
	require.ErrorIs(t, err, ErrQuizNotEditable)
}

func TestQuizService_Create_RequiresManagerRole(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	repo.user.On("GetRole", ctx, uint(20)).Return(models.RoleStudent, nil)

	req := &CreateQuizRequest{
		Title:        "Midterm",
		CourseID:     1,
		PassingMarks: 50,
		Questions: []QuestionRequest{
			{Type: models.QuestionShortAnswer, Text: "Define x", ExpectedAnswer: stringPtr("variable")},
		},
	}

	_, err := service.Create(ctx, req, 20)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestQuizService_GetStats_ComposesAttemptReadModel(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)
	repo.quiz.On("GetByID", ctx, uint(5)).Return(&models.Quiz{
		ID: 5, Title: "Midterm", CourseID: 1, PassingMarks: 60, Status: models.StatusPublished,
	}, nil)
	repo.quiz.On("GetStats", ctx, uint(5)).Return(&repositories.QuizStats{
		QuestionCount: 3,
		TotalMarks:    30,
	}, nil)
	repo.attempt.On("StatsByQuiz", ctx, uint(5), 60).Return(&repositories.AttemptStats{
		TotalAttempts:     4,
		CompletedAttempts: 2,
		AverageScore:      70,
		PassRate:          50,
	}, nil)

	stats, err := service.GetStats(ctx, 5, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.QuestionCount)
	assert.Equal(t, 30, stats.TotalMarks)
	assert.Equal(t, 4, stats.TotalAttempts)
	assert.Equal(t, 2, stats.CompletedAttempts)
	assert.Equal(t, 70.0, stats.AverageScore)
	assert.Equal(t, 50.0, stats.PassRate)

	repo.attempt.AssertExpectations(t)
}

func TestQuizService_Publish_IncrementsEventCounter(t *testing.T) {
	repo := newMockRepository()
	service := newTestQuizService(repo, events.NewMockEventPublisher())
	ctx := context.Background()

	quiz := &models.Quiz{
		ID:       5,
		Title:    "Weekly quiz",
		CourseID: 1,
		Status:   models.StatusDraft,
		Course:   *activeCourse(1),
	}

	repo.user.On("GetRole", ctx, uint(10)).Return(models.RoleTutor, nil)
	repo.quiz.On("GetByID", ctx, uint(5)).Return(quiz, nil)
	repo.quiz.On("IsOwner", ctx, uint(5), uint(10)).Return(true, nil)
	repo.question.On("GetByQuiz", ctx, uint(5)).Return([]*models.Question{
		{Type: models.QuestionShortAnswer, Text: "Define x", CorrectAnswer: "variable", Position: 1},
	}, nil)
	repo.quiz.On("UpdateStatus", ctx, uint(5), models.StatusPublished).
		Run(func(mock.Arguments) { quiz.Status = models.StatusPublished }).
		Return(nil)

	counter := monitoring.QuizEventsPublished.WithLabelValues(string(events.EventQuizPublished))
	before := testutil.ToFloat64(counter)

	_, err := service.Publish(ctx, 5, 10)
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
