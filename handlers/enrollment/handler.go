package enrollment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// EnrollmentHandler handles enrollment requests
type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollments *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// ListEnrollments returns the student's active enrollments
func (h *EnrollmentHandler) ListEnrollments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	enrollments, err := h.enrollments.ListActive(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list enrollments")
	}

	return response.Success(c, enrollments)
}

// Unenroll deactivates the enrollment and wipes course progress. Payments
// and earned certificates are kept.
func (h *EnrollmentHandler) Unenroll(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courseID, err := strconv.ParseUint(c.Params("course_id"), 10, 32)
	if err != nil || courseID == 0 {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.enrollments.Unenroll(c.Context(), userID, uint(courseID)); err != nil {
		if errors.Is(err, services.ErrNotEnrolled) {
			return response.NotFound(c, "Not enrolled in this course")
		}
		return response.InternalServerError(c, "Failed to unenroll")
	}

	return response.SuccessWithMessage(c, "Unenrolled from course", nil)
}
