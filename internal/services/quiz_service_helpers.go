package services

import (
	"context"
	"fmt"

	"github.com/brightpath-edu/tutor-portal/internal/events"
	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/brightpath-edu/tutor-portal/pkg/monitoring"
)

// ===== REQUEST MAPPING =====

func (s *quizService) buildQuizFromCreate(req *CreateQuizRequest, creatorID uint) *models.Quiz {
	quiz := &models.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		CourseID:     req.CourseID,
		Duration:     req.Duration,
		Instructions: req.Instructions,
		Difficulty:   models.DifficultyMedium,
		Password:     req.Password,
		Status:       models.StatusDraft,
		MaxAttempts:  1,
		PassingMarks: req.PassingMarks,
		CreatedBy:    creatorID,

		ShowResults:   true,
		ReviewEnabled: true,
	}

	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.ShowResults != nil {
		quiz.ShowResults = *req.ShowResults
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShuffleAnswers != nil {
		quiz.ShuffleAnswers = *req.ShuffleAnswers
	}
	if req.ReviewEnabled != nil {
		quiz.ReviewEnabled = *req.ReviewEnabled
	}
	if req.AutoSubmit != nil {
		quiz.AutoSubmit = *req.AutoSubmit
	}

	return quiz
}

func (s *quizService) applyQuizUpdates(quiz *models.Quiz, req *UpdateQuizRequest) {
	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.CourseID = req.CourseID
	quiz.Duration = req.Duration
	quiz.Instructions = req.Instructions
	quiz.Password = req.Password
	quiz.PassingMarks = req.PassingMarks

	if req.Difficulty != nil {
		quiz.Difficulty = *req.Difficulty
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.ShowResults != nil {
		quiz.ShowResults = *req.ShowResults
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShuffleAnswers != nil {
		quiz.ShuffleAnswers = *req.ShuffleAnswers
	}
	if req.ReviewEnabled != nil {
		quiz.ReviewEnabled = *req.ReviewEnabled
	}
	if req.AutoSubmit != nil {
		quiz.AutoSubmit = *req.AutoSubmit
	}
}

// applySchedule parses the wire datetime strings onto the quiz. Parse
// failures surface as field-level validation errors.
func (s *quizService) applySchedule(quiz *models.Quiz, startAt, endAt *string) error {
	start, err := utils.ParseScheduleTimePtr(startAt)
	if err != nil {
		return ValidationErrors{*NewValidationError("start_at", err.Error(), startAt)}
	}

	end, err := utils.ParseScheduleTimePtr(endAt)
	if err != nil {
		return ValidationErrors{*NewValidationError("end_at", err.Error(), endAt)}
	}

	quiz.StartAt = start
	quiz.EndAt = end
	return nil
}

// buildQuestionModels maps the payload's ordered question list onto models,
// assigning 1-based positions and deriving each correct answer server-side.
// Incomplete drag-drop pairs are dropped here and never persisted.
func (s *quizService) buildQuestionModels(reqs []QuestionRequest) ([]*models.Question, error) {
	questions := make([]*models.Question, 0, len(reqs))

	for i, req := range reqs {
		q := &models.Question{
			Type:        req.Type,
			Text:        req.Text,
			Marks:       1,
			Difficulty:  models.DifficultyMedium,
			Explanation: req.Explanation,
			Position:    i + 1,
		}

		if req.ID != nil {
			q.ID = *req.ID
		}
		if req.Marks != nil {
			q.Marks = *req.Marks
		}
		if req.Difficulty != nil {
			q.Difficulty = *req.Difficulty
		}

		switch req.Type {
		case models.QuestionMCQ:
			q.Options = make([]models.QuestionOption, 0, len(req.Options))
			for j, opt := range req.Options {
				q.Options = append(q.Options, models.QuestionOption{
					Text:      opt.Text,
					IsCorrect: opt.IsCorrect,
					Position:  j + 1,
				})
			}

		case models.QuestionShortAnswer:
			if req.ExpectedAnswer != nil {
				q.CorrectAnswer = *req.ExpectedAnswer
			}
			if req.IsCaseSensitive != nil {
				q.IsCaseSensitive = *req.IsCaseSensitive
			}

		case models.QuestionDragDrop:
			for _, pair := range req.Pairs {
				p := models.DragDropPair{
					ItemText:   pair.ItemText,
					TargetText: pair.TargetText,
				}
				if !p.IsComplete() {
					continue
				}
				p.Position = len(q.Pairs) + 1
				q.Pairs = append(q.Pairs, p)
			}

		default:
			return nil, fmt.Errorf("%w: %q", ErrQuestionInvalidType, req.Type)
		}

		q.CorrectAnswer = DeriveCorrectAnswer(q)
		questions = append(questions, q)
	}

	return questions, nil
}

// ===== RESPONSE MAPPING =====

func (s *quizService) buildQuizResponse(quiz *models.Quiz, withQuestions bool) *QuizResponse {
	resp := &QuizResponse{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		CourseID:     quiz.CourseID,
		CourseName:   quiz.Course.Name,
		Duration:     quiz.Duration,
		Instructions: quiz.Instructions,
		Difficulty:   quiz.Difficulty,
		HasPassword:  quiz.Password != nil && *quiz.Password != "",

		ShowResults:      quiz.ShowResults,
		ShuffleQuestions: quiz.ShuffleQuestions,
		ShuffleAnswers:   quiz.ShuffleAnswers,
		ReviewEnabled:    quiz.ReviewEnabled,
		AutoSubmit:       quiz.AutoSubmit,

		MaxAttempts:  quiz.MaxAttempts,
		PassingMarks: quiz.PassingMarks,

		StartAt: utils.FormatScheduleTimePtr(quiz.StartAt),
		EndAt:   utils.FormatScheduleTimePtr(quiz.EndAt),

		Status: quiz.Status,

		QuestionCount: quiz.QuestionCount,
		TotalMarks:    quiz.TotalMarks,
		AttemptCount:  quiz.AttemptCount,
		AvgScore:      quiz.AvgScore,

		CreatedBy: quiz.CreatedBy,
		CreatedAt: quiz.CreatedAt,
		UpdatedAt: quiz.UpdatedAt,
	}

	if withQuestions {
		resp.Questions = make([]QuestionResponse, 0, len(quiz.Questions))
		for i := range quiz.Questions {
			resp.Questions = append(resp.Questions, buildQuestionResponse(&quiz.Questions[i]))
		}
	}

	return resp
}

func buildQuestionResponse(q *models.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:          q.ID,
		Type:        q.Type,
		Text:        q.Text,
		Marks:       q.Marks,
		Difficulty:  q.Difficulty,
		Explanation: q.Explanation,
		Position:    q.Position,

		CorrectAnswer:   q.CorrectAnswer,
		IsCaseSensitive: q.IsCaseSensitive,
	}

	for _, opt := range q.Options {
		resp.Options = append(resp.Options, QuestionOptionResponse{
			ID:        opt.ID,
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Position:  opt.Position,
		})
	}

	for _, pair := range q.Pairs {
		resp.Pairs = append(resp.Pairs, DragDropPairResponse{
			ID:         pair.ID,
			ItemText:   pair.ItemText,
			TargetText: pair.TargetText,
			Position:   pair.Position,
		})
	}

	return resp
}

func (s *quizService) buildQuizListResponse(quizzes []*models.Quiz, total int64, filters repositories.QuizFilters) *QuizListResponse {
	response := &QuizListResponse{
		Quizzes: make([]*QuizResponse, len(quizzes)),
		Total:   total,
		Page:    filters.Offset / max(filters.Limit, 1),
		Size:    filters.Limit,
	}

	for i, quiz := range quizzes {
		response.Quizzes[i] = s.buildQuizResponse(quiz, false)
	}

	return response
}

// ===== PERMISSION HELPERS =====

func (s *quizService) checkCanManage(ctx context.Context, userID uint) error {
	role, err := s.repo.User().GetRole(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user role: %w", err)
	}

	if !role.CanManageQuizzes() {
		return NewPermissionError(userID, 0, "quiz", "create", "insufficient role permissions")
	}
	return nil
}

// checkCanAccess allows the owner and any admin role through.
func (s *quizService) checkCanAccess(ctx context.Context, quizID, userID uint) error {
	role, err := s.repo.User().GetRole(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user role: %w", err)
	}

	if role == models.RoleAdmin || role == models.RoleSuperAdmin {
		return nil
	}

	isOwner, err := s.repo.Quiz().IsOwner(ctx, quizID, userID)
	if err != nil {
		return fmt.Errorf("failed to check ownership: %w", err)
	}
	if !isOwner {
		return NewPermissionError(userID, quizID, "quiz", "read", "not owner or insufficient permissions")
	}
	return nil
}

func (s *quizService) checkIsOwner(ctx context.Context, quizID, userID uint, action string) error {
	role, err := s.repo.User().GetRole(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user role: %w", err)
	}

	if role == models.RoleAdmin || role == models.RoleSuperAdmin {
		return nil
	}

	isOwner, err := s.repo.Quiz().IsOwner(ctx, quizID, userID)
	if err != nil {
		return fmt.Errorf("failed to check ownership: %w", err)
	}
	if !isOwner {
		return NewPermissionError(userID, quizID, "quiz", action, "not quiz owner")
	}
	return nil
}

func (s *quizService) checkCourse(ctx context.Context, courseID uint) error {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	if !course.IsActive {
		return ErrCourseInactive
	}
	return nil
}

// scopeFiltersToUser limits non-admin users to their own quizzes.
func (s *quizService) scopeFiltersToUser(ctx context.Context, filters *repositories.QuizFilters, userID uint) error {
	role, err := s.repo.User().GetRole(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user role: %w", err)
	}

	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		filters.CreatedBy = &userID
	}
	return nil
}

// ===== CACHE AND EVENTS =====

func quizCacheKey(id uint) string {
	return fmt.Sprintf("quiz:%d", id)
}

func (s *quizService) invalidateQuizCache(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, quizCacheKey(id)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", id, "error", err)
	}
}

// publishLifecycleEvent is best effort; a broker outage never fails the
// originating request.
func (s *quizService) publishLifecycleEvent(ctx context.Context, event *events.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz event",
			"event_type", event.Type, "error", err)
		return
	}
	monitoring.QuizEventsPublished.WithLabelValues(string(event.Type)).Inc()
}
