package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brightpath-edu/tutor-portal/internal/services"
	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: err.Error(),
		})
		return 0
	}
	return uint(id)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

// handleServiceError maps service layer errors onto HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	// Authoring rule failures carry a single editor-facing message.
	var draftViolation *services.DraftViolation
	if errors.As(err, &draftViolation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: draftViolation.Message,
			Code:    "draft_invalid",
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz not found",
		})
	case errors.Is(err, services.ErrQuizAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied to quiz",
		})
	case errors.Is(err, services.ErrQuizNotEditable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Quiz cannot be edited in current status",
		})
	case errors.Is(err, services.ErrQuizNotDeletable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Quiz cannot be deleted - has existing attempts",
		})
	case errors.Is(err, services.ErrQuizInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Invalid quiz status transition",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrQuizDuplicateTitle):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Quiz title already exists for this tutor",
		})
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Course not found",
		})
	case errors.Is(err, services.ErrCourseDuplicateCode):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Course code already exists",
		})
	case errors.Is(err, services.ErrCourseInactive):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Course is not active",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized access",
		})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrInsufficientPermissions):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden - insufficient permissions",
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Resource conflict",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
