package application

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// ApplicationHandler handles internship application requests
type ApplicationHandler struct {
	applications *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// ApplyRequest represents an internship application request
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter" validate:"required"`
	ResumePath  string `json:"resume_path"`
}

// Apply submits the student's application to an internship
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	internshipID, err := parseID(c, "internship_id")
	if err != nil {
		return response.BadRequest(c, "Invalid internship id")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	application, err := h.applications.Apply(c.Context(), services.ApplyRequest{
		StudentID:    studentID,
		InternshipID: internshipID,
		CoverLetter:  req.CoverLetter,
		ResumePath:   req.ResumePath,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Internship not found")
		case errors.Is(err, services.ErrDuplicateApplication):
			return response.DuplicateAction(c, "Already applied to this internship")
		case errors.Is(err, services.ErrNoSeatsAvailable):
			return response.PreconditionFailed(c, "No seats available")
		case errors.Is(err, services.ErrDeadlinePassed):
			return response.PreconditionFailed(c, "Application deadline has passed")
		case errors.Is(err, services.ErrEmptyCoverLetter):
			return response.ValidationError(c, err)
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, application)
}

// Withdraw retracts the student's pending application
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	application, err := h.applications.Withdraw(c.Context(), studentID, applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.Conflict(c, "Application can no longer be withdrawn")
		default:
			return response.InternalServerError(c, "Failed to withdraw application")
		}
	}

	return response.Success(c, application)
}

// ListMyApplications returns the student's applications
func (h *ApplicationHandler) ListMyApplications(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	applications, err := h.applications.ListByStudent(c.Context(), studentID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, applications)
}

// ListInternshipApplications returns all applications for a posting the
// company owns.
func (h *ApplicationHandler) ListInternshipApplications(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	internshipID, err := parseID(c, "internship_id")
	if err != nil {
		return response.BadRequest(c, "Invalid internship id")
	}

	applications, err := h.applications.ListByInternship(c.Context(), companyID, internshipID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Internship not found")
		}
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, applications)
}

// TransitionRequest represents a status change request
type TransitionRequest struct {
	Status          string     `json:"status" validate:"required"`
	InterviewAt     *time.Time `json:"interview_at"`
	RejectionReason string     `json:"rejection_reason"`
}

// TransitionApplication moves an application along the review pipeline
func (h *ApplicationHandler) TransitionApplication(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}
	if req.Status == model.ApplicationStatusWithdrawn {
		return response.Forbidden(c, "Only the applicant can withdraw an application")
	}

	// Ownership check before any state change
	current, err := h.applications.GetForCompany(c.Context(), companyID, applicationID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to load application")
	}

	application, err := h.applications.Transition(c.Context(), services.TransitionRequest{
		ApplicationID:   applicationID,
		NewStatus:       req.Status,
		InterviewAt:     req.InterviewAt,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.StateConflict(c, "Status change is not allowed", current.Status)
		default:
			return response.InternalServerError(c, "Failed to update application")
		}
	}

	return response.Success(c, application)
}
