package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, tutorID uint) (*CourseResponse, error) {
	s.logger.Info("Creating course", "tutor_id", tutorID, "code", req.Code)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	role, err := s.repo.User().GetRole(ctx, tutorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user role: %w", err)
	}
	if !role.CanManageQuizzes() {
		return nil, NewPermissionError(tutorID, 0, "course", "create", "insufficient role permissions")
	}

	exists, err := s.repo.Course().ExistsByCode(ctx, req.Code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check course code: %w", err)
	}
	if exists {
		return nil, ErrCourseDuplicateCode
	}

	course := &models.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		TutorID:     tutorID,
		IsActive:    true,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created successfully", "course_id", course.ID)

	return buildCourseResponse(course), nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return buildCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, userID uint) (*CourseResponse, error) {
	s.logger.Info("Updating course", "course_id", id, "user_id", userID)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	role, err := s.repo.User().GetRole(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user role: %w", err)
	}
	if course.TutorID != userID && role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return nil, NewPermissionError(userID, id, "course", "update", "not course tutor")
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return buildCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	response := &CourseListResponse{
		Courses: make([]*CourseResponse, len(courses)),
		Total:   total,
	}
	for i, course := range courses {
		response.Courses[i] = buildCourseResponse(course)
	}

	return response, nil
}

func buildCourseResponse(course *models.Course) *CourseResponse {
	return &CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Code:        course.Code,
		Description: course.Description,
		TutorID:     course.TutorID,
		IsActive:    course.IsActive,
		CreatedAt:   course.CreatedAt,
	}
}
