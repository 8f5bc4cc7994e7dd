package progress

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// ProgressHandler handles course progress requests
type ProgressHandler struct {
	progress    *services.ProgressService
	enrollments *services.EnrollmentService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *services.ProgressService, enrollments *services.EnrollmentService) *ProgressHandler {
	return &ProgressHandler{progress: progress, enrollments: enrollments}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// MarkMaterialViewed records that the student opened a material and returns
// the recomputed course progress. Repeat views are no-ops.
func (h *ProgressHandler) MarkMaterialViewed(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	materialID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid material id")
	}

	progress, err := h.progress.MarkMaterialViewed(c.Context(), studentID, materialID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Material not found")
		}
		return response.InternalServerError(c, "Failed to record material view")
	}

	return response.Success(c, progress)
}

// GetCourseProgress returns the student's progress in one course
func (h *ProgressHandler) GetCourseProgress(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	enrolled, err := h.enrollments.IsEnrolled(c.Context(), studentID, courseID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check enrollment")
	}
	if !enrolled {
		return response.NotFound(c, "Not enrolled in this course")
	}

	progress, err := h.progress.Compute(c.Context(), studentID, courseID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to compute progress")
	}

	return response.Success(c, progress)
}
