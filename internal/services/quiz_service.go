package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/cache"
	"github.com/brightpath-edu/tutor-portal/internal/events"
	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/validator"
)

const quizCacheTTL = 5 * time.Minute

type quizService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) QuizService {
	return &quizService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, creatorID uint) (*QuizResponse, error) {
	s.logger.Info("Creating quiz", "creator_id", creatorID, "title", req.Title)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	if err := s.checkCanManage(ctx, creatorID); err != nil {
		return nil, err
	}

	quiz := s.buildQuizFromCreate(req, creatorID)
	if err := s.applySchedule(quiz, req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	questions, err := s.buildQuestionModels(req.Questions)
	if err != nil {
		return nil, err
	}

	// Authoring rules run before anything touches the database; the first
	// failing rule is returned verbatim to the editor.
	if err := s.validator.Quiz().ValidateDraft(quiz, questions); err != nil {
		return nil, err
	}

	if err := s.checkCourse(ctx, quiz.CourseID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Quiz().ExistsByTitle(ctx, quiz.Title, creatorID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check title uniqueness: %w", err)
	}
	if exists {
		return nil, ErrQuizDuplicateTitle
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Quiz().Create(ctx, quiz); err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		if err := txRepo.Question().SyncQuizQuestions(ctx, quiz.ID, questions); err != nil {
			return fmt.Errorf("failed to save questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz created successfully", "quiz_id", quiz.ID)

	return s.GetByIDWithQuestions(ctx, quiz.ID, creatorID)
}

func (s *quizService) GetByID(ctx context.Context, id uint, userID uint) (*QuizResponse, error) {
	if err := s.checkCanAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return s.buildQuizResponse(quiz, false), nil
}

func (s *quizService) GetByIDWithQuestions(ctx context.Context, id uint, userID uint) (*QuizResponse, error) {
	if err := s.checkCanAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	cacheKey := quizCacheKey(id)
	if s.cache != nil {
		var cached QuizResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz with questions: %w", err)
	}

	response := s.buildQuizResponse(quiz, true)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, response, quizCacheTTL); err != nil {
			s.logger.Warn("Failed to cache quiz", "quiz_id", id, "error", err)
		}
	}

	return response, nil
}

func (s *quizService) Update(ctx context.Context, id uint, req *UpdateQuizRequest, userID uint) (*QuizResponse, error) {
	s.logger.Info("Updating quiz", "quiz_id", id, "user_id", userID)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.checkIsOwner(ctx, id, userID, "update"); err != nil {
		return nil, err
	}
	if !quiz.IsEditable() {
		return nil, ErrQuizNotEditable
	}

	prevStartAt, prevEndAt := quiz.StartAt, quiz.EndAt

	s.applyQuizUpdates(quiz, req)
	if err := s.applySchedule(quiz, req.StartAt, req.EndAt); err != nil {
		return nil, err
	}

	questions, err := s.buildQuestionModels(req.Questions)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Quiz().ValidateDraft(quiz, questions); err != nil {
		return nil, err
	}

	if err := s.checkCourse(ctx, quiz.CourseID); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Quiz().Update(ctx, quiz); err != nil {
			return fmt.Errorf("failed to update quiz: %w", err)
		}
		if err := txRepo.Question().SyncQuizQuestions(ctx, id, questions); err != nil {
			return fmt.Errorf("failed to sync questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateQuizCache(ctx, id)

	// Students may already hold the old window for a live quiz.
	if quiz.Status == models.StatusPublished && scheduleChanged(prevStartAt, prevEndAt, quiz.StartAt, quiz.EndAt) {
		s.publishLifecycleEvent(ctx, events.NewQuizScheduleChangedEvent(events.QuizScheduleChangedEvent{
			QuizID:    quiz.ID,
			QuizTitle: quiz.Title,
			CourseID:  quiz.CourseID,
			StartAt:   quiz.StartAt,
			EndAt:     quiz.EndAt,
			TutorID:   quiz.CreatedBy,
		}))
	}

	s.logger.Info("Quiz updated successfully", "quiz_id", id)

	return s.GetByIDWithQuestions(ctx, id, userID)
}

func scheduleChanged(oldStart, oldEnd, newStart, newEnd *time.Time) bool {
	return !timePtrEqual(oldStart, newStart) || !timePtrEqual(oldEnd, newEnd)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Delete soft deletes a quiz. Deleting a quiz that no longer exists is a
// success; repeated deletes converge on the same state.
func (s *quizService) Delete(ctx context.Context, id uint, userID uint) error {
	s.logger.Info("Deleting quiz", "quiz_id", id, "user_id", userID)

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.checkIsOwner(ctx, id, userID, "delete"); err != nil {
		return err
	}

	hasAttempts, err := s.repo.Quiz().HasAttempts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check attempts: %w", err)
	}
	if hasAttempts {
		return ErrQuizNotDeletable
	}

	if err := s.repo.Quiz().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.invalidateQuizCache(ctx, id)
	s.publishLifecycleEvent(ctx, events.NewQuizDeletedEvent(events.QuizDeletedEvent{
		QuizID:    quiz.ID,
		QuizTitle: quiz.Title,
		CourseID:  quiz.CourseID,
		DeletedAt: time.Now(),
		TutorID:   quiz.CreatedBy,
	}))

	s.logger.Info("Quiz deleted successfully", "quiz_id", id)
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters, userID uint) (*QuizListResponse, error) {
	if err := s.scopeFiltersToUser(ctx, &filters, userID); err != nil {
		return nil, err
	}

	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	return s.buildQuizListResponse(quizzes, total, filters), nil
}

func (s *quizService) Search(ctx context.Context, query string, filters repositories.QuizFilters, userID uint) (*QuizListResponse, error) {
	if err := s.scopeFiltersToUser(ctx, &filters, userID); err != nil {
		return nil, err
	}

	quizzes, total, err := s.repo.Quiz().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search quizzes: %w", err)
	}

	return s.buildQuizListResponse(quizzes, total, filters), nil
}

// ===== STATUS MANAGEMENT =====

// Publish moves a quiz to published. Allowed from draft and from archived;
// draft content must pass authoring validation before going live.
func (s *quizService) Publish(ctx context.Context, id uint, userID uint) (*QuizResponse, error) {
	return s.transition(ctx, id, userID, models.StatusPublished)
}

// Archive moves a published quiz to archived.
func (s *quizService) Archive(ctx context.Context, id uint, userID uint) (*QuizResponse, error) {
	return s.transition(ctx, id, userID, models.StatusArchived)
}

func (s *quizService) transition(ctx context.Context, id uint, userID uint, target models.QuizStatus) (*QuizResponse, error) {
	s.logger.Info("Updating quiz status", "quiz_id", id, "target_status", target, "user_id", userID)

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.checkIsOwner(ctx, id, userID, "update_status"); err != nil {
		return nil, err
	}

	// Repeating a transition is a no-op so retried requests stay safe.
	if quiz.Status == target {
		return s.buildQuizResponse(quiz, false), nil
	}

	if !quiz.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrQuizInvalidTransition, quiz.Status, target)
	}

	if target == models.StatusPublished && quiz.Status == models.StatusDraft {
		questions, err := s.repo.Question().GetByQuiz(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load questions: %w", err)
		}
		if err := s.validator.Quiz().ValidateDraft(quiz, questions); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Quiz().UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("failed to update quiz status: %w", err)
	}

	s.invalidateQuizCache(ctx, id)

	switch target {
	case models.StatusPublished:
		s.publishLifecycleEvent(ctx, events.NewQuizPublishedEvent(events.QuizPublishedEvent{
			QuizID:     quiz.ID,
			QuizTitle:  quiz.Title,
			CourseID:   quiz.CourseID,
			CourseName: quiz.Course.Name,
			StartAt:    quiz.StartAt,
			EndAt:      quiz.EndAt,
			Duration:   quiz.Duration,
			TutorID:    quiz.CreatedBy,
		}))
	case models.StatusArchived:
		s.publishLifecycleEvent(ctx, events.NewQuizArchivedEvent(events.QuizArchivedEvent{
			QuizID:     quiz.ID,
			QuizTitle:  quiz.Title,
			CourseID:   quiz.CourseID,
			ArchivedAt: time.Now(),
			TutorID:    quiz.CreatedBy,
		}))
	}

	s.logger.Info("Quiz status updated successfully", "quiz_id", id, "status", target)

	return s.GetByID(ctx, id, userID)
}

// ===== STATISTICS =====

// GetStats assembles dashboard statistics from the quiz content side and the
// attempt read model.
func (s *quizService) GetStats(ctx context.Context, id uint, userID uint) (*repositories.QuizStats, error) {
	if err := s.checkCanAccess(ctx, id, userID); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	stats, err := s.repo.Quiz().GetStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz stats: %w", err)
	}

	attemptStats, err := s.repo.Attempt().StatsByQuiz(ctx, id, quiz.PassingMarks)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt stats: %w", err)
	}

	stats.TotalAttempts = attemptStats.TotalAttempts
	stats.CompletedAttempts = attemptStats.CompletedAttempts
	stats.AverageScore = attemptStats.AverageScore
	stats.PassRate = attemptStats.PassRate

	return stats, nil
}

func (s *quizService) GetTutorStats(ctx context.Context, tutorID uint) (*repositories.TutorStats, error) {
	stats, err := s.repo.Quiz().GetTutorStats(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor stats: %w", err)
	}

	return stats, nil
}
