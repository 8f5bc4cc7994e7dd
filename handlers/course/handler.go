package course

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// CourseHandler handles course catalog requests
type CourseHandler struct {
	courses *services.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// ListCourses returns the public catalog with search, filters and pagination
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	opts := services.CourseListOptions{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("per_page", 20),
	}

	courses, total, err := h.courses.List(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list courses")
	}

	return response.Paginated(c, courses, response.CalculatePagination(opts.Page, opts.PerPage, total))
}

// GetCourse returns one course with its published content
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.courses.Get(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}

	return response.Success(c, fiber.Map{
		"course":  course,
		"is_free": course.IsFree(),
	})
}

// CourseRequest represents a create/update course request
type CourseRequest struct {
	Title              string  `json:"title" validate:"required"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	Level              string  `json:"level"`
	Duration           string  `json:"duration"`
	Price              float64 `json:"price"`
	Skills             string  `json:"skills"`
	Syllabus           string  `json:"syllabus"`
	ImagePath          string  `json:"image_path"`
	CertificateEnabled *bool   `json:"certificate_enabled"`
}

func (r *CourseRequest) toInput() services.CourseInput {
	return services.CourseInput{
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Level:              r.Level,
		Duration:           r.Duration,
		Price:              r.Price,
		Skills:             r.Skills,
		Syllabus:           r.Syllabus,
		ImagePath:          r.ImagePath,
		CertificateEnabled: r.CertificateEnabled,
	}
}

// CreateCourse creates a course owned by the authenticated teacher
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.Price < 0 {
		return response.BadRequest(c, "Price must not be negative")
	}

	course, err := h.courses.Create(c.Context(), teacherID, req.toInput())
	if err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}

// UpdateCourse edits a course the teacher owns
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.Price < 0 {
		return response.BadRequest(c, "Price must not be negative")
	}

	course, err := h.courses.Update(c.Context(), teacherID, courseID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.Success(c, course)
}

// DeleteCourse removes a course the teacher owns
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.courses.Delete(c.Context(), teacherID, courseID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.NoContent(c)
}

// ListMyCourses returns the authenticated teacher's courses
func (h *CourseHandler) ListMyCourses(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courses, err := h.courses.ListByTeacher(c.Context(), teacherID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list courses")
	}

	return response.Success(c, courses)
}
