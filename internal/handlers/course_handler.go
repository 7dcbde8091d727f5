package handlers

import (
	"net/http"
	"strconv"

	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/services"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} SuccessResponse{data=services.CourseResponse}
// @Failure 400 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
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

	course, err := h.courseService.Create(c.Request.Context(), &req, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, success(course))
}

// GetCourse retrieves a course by ID
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse{data=services.CourseResponse}
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(course))
}

// UpdateCourse updates course metadata
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param course body services.UpdateCourseRequest true "Course update data"
// @Success 200 {object} SuccessResponse{data=services.CourseResponse}
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
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

	course, err := h.courseService.Update(c.Request.Context(), id, &req, session.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(course))
}

// ListCourses lists courses with filters
// @Summary List courses
// @Tags courses
// @Produce json
// @Param tutor_id query int false "Filter by tutor"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} SuccessResponse{data=services.CourseListResponse}
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 20)
	if page < 1 {
		page = 1
	}

	filters := repositories.CourseFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if tutorIDStr := c.Query("tutor_id"); tutorIDStr != "" {
		if tutorID, err := strconv.ParseUint(tutorIDStr, 10, 32); err == nil {
			id := uint(tutorID)
			filters.TutorID = &id
		}
	}

	if activeStr := c.Query("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			filters.IsActive = &active
		}
	}

	courses, err := h.courseService.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, success(courses))
}
