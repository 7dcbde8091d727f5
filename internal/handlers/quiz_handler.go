package handlers

import (
	"net/http"
	"strconv"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/services"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	exportService services.ExportService
}

func NewQuizHandler(
	quizService services.QuizService,
	exportService services.ExportService,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		exportService: exportService,
	}
}

// CreateQuiz creates a new quiz draft together with its question list
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body services.CreateQuizRequest true "Quiz data"
// @Success 201 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, success(quiz))
}

// GetQuiz retrieves a quiz without its question list
// @Summary Get quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quiz))
}

// GetQuizWithQuestions retrieves a quiz with its ordered question list
// @Summary Get quiz with questions
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/questions [get]
func (h *QuizHandler) GetQuizWithQuestions(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByIDWithQuestions(c.Request.Context(), id, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quiz))
}

// UpdateQuiz replaces the editable surface of a quiz, question list included
// @Summary Update quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param quiz body services.UpdateQuizRequest true "Quiz update data"
// @Success 200 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating quiz", "quiz_id", id)

	var req services.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quiz))
}

// DeleteQuiz soft deletes a quiz; repeat deletes succeed
// @Summary Delete quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id, session.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Quiz deleted successfully",
	})
}

// ListQuizzes lists quizzes with filters and pagination
// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Param status query string false "Filter by status"
// @Param course_id query int false "Filter by course"
// @Success 200 {object} SuccessResponse{data=services.QuizListResponse}
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	filters := parseQuizFilters(c)
	quizzes, err := h.quizService.List(c.Request.Context(), filters, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quizzes))
}

// SearchQuizzes searches quizzes by title and description
// @Summary Search quizzes
// @Tags quizzes
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} SuccessResponse{data=services.QuizListResponse}
// @Router /quizzes/search [get]
func (h *QuizHandler) SearchQuizzes(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	query := c.Query("q")
	filters := parseQuizFilters(c)

	quizzes, err := h.quizService.Search(c.Request.Context(), query, filters, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quizzes))
}

// PublishQuiz moves a quiz to published
// @Summary Publish quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id}/publish [patch]
func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Publish(c.Request.Context(), id, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quiz))
}

// ArchiveQuiz moves a published quiz to archived
// @Summary Archive quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=services.QuizResponse}
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id}/archive [patch]
func (h *QuizHandler) ArchiveQuiz(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Archive(c.Request.Context(), id, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(quiz))
}

// GetQuizStats returns a quiz's dashboard statistics
// @Summary Get quiz stats
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} SuccessResponse{data=repositories.QuizStats}
// @Router /quizzes/{id}/stats [get]
func (h *QuizHandler) GetQuizStats(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	stats, err := h.quizService.GetStats(c.Request.Context(), id, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(stats))
}

// GetTutorStats returns aggregate quiz statistics for the signed-in tutor
// @Summary Get tutor stats
// @Tags quizzes
// @Produce json
// @Success 200 {object} SuccessResponse{data=repositories.TutorStats}
// @Router /quizzes/tutor/stats [get]
func (h *QuizHandler) GetTutorStats(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	stats, err := h.quizService.GetTutorStats(c.Request.Context(), session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(stats))
}

// ExportQuiz downloads a quiz's question list as XLSX or CSV
// @Summary Export quiz
// @Tags quizzes
// @Produce application/octet-stream
// @Param id path uint true "Quiz ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} binary
// @Router /quizzes/{id}/export [get]
func (h *QuizHandler) ExportQuiz(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "xlsx")

	var (
		data     []byte
		filename string
		err      error
		mimeType string
	)

	switch format {
	case "xlsx":
		data, filename, err = h.exportService.ExportQuizXLSX(c.Request.Context(), id, session.UserID)
		mimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, filename, err = h.exportService.ExportQuizCSV(c.Request.Context(), id, session.UserID)
		mimeType = "text/csv"
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
		return
	}

	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, mimeType, data)
}

func parseQuizFilters(c *gin.Context) repositories.QuizFilters {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 10)
	if page < 1 {
		page = 1
	}

	filters := repositories.QuizFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if status := c.Query("status"); status != "" {
		quizStatus := models.QuizStatus(status)
		filters.Status = &quizStatus
	}

	if courseIDStr := c.Query("course_id"); courseIDStr != "" {
		if courseID, err := strconv.ParseUint(courseIDStr, 10, 32); err == nil {
			id := uint(courseID)
			filters.CourseID = &id
		}
	}

	return filters
}
