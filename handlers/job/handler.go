package job

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
	"github.com/skillora/skillora-api/utils/validation"
)

// JobHandler handles job board requests
type JobHandler struct {
	jobs *services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// JobRequest represents a create/update job request
type JobRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	SalaryRange  string `json:"salary_range"`
	JobType      string `json:"job_type"`
}

func (r *JobRequest) toInput() services.JobInput {
	return services.JobInput{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		SalaryRange:  r.SalaryRange,
		JobType:      r.JobType,
	}
}

// CreateJob creates a job posting for the authenticated company
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	job, err := h.jobs.Create(c.Context(), companyID, req.toInput())
	if err != nil {
		return response.InternalServerError(c, "Failed to create job")
	}

	return response.Created(c, job)
}

// UpdateJob edits a job posting the company owns
func (h *JobHandler) UpdateJob(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	jobID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	job, err := h.jobs.Update(c.Context(), companyID, jobID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to update job")
	}

	return response.Success(c, job)
}

// DeleteJob removes a job posting the company owns
func (h *JobHandler) DeleteJob(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	jobID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	if err := h.jobs.Delete(c.Context(), companyID, jobID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to delete job")
	}

	return response.NoContent(c)
}

// ListJobs returns the public job board
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobs.List(c.Context(), c.Query("job_type"), c.Query("location"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list jobs")
	}

	return response.Success(c, jobs)
}

// ListMyJobs returns the authenticated company's job postings
func (h *JobHandler) ListMyJobs(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	jobs, err := h.jobs.ListByCompany(c.Context(), companyID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list jobs")
	}

	return response.Success(c, jobs)
}

// JobApplyRequest represents an anonymous job application
type JobApplyRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	CoverNote  string `json:"cover_note"`
	ResumePath string `json:"resume_path"`
}

// ApplyToJob records an application to a job posting. No account is needed;
// the email deduplicates applications per job.
func (h *JobHandler) ApplyToJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	var req JobApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Email == "" {
		return response.BadRequest(c, "Name and email are required")
	}
	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}

	application, err := h.jobs.Apply(c.Context(), jobID, services.JobApplicationInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		CoverNote:  req.CoverNote,
		ResumePath: req.ResumePath,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Job not found")
		case errors.Is(err, services.ErrDuplicateJobApplication):
			return response.DuplicateAction(c, "An application with this email already exists for this job")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, application)
}

// ListJobApplications returns all applications for a job the company owns
func (h *JobHandler) ListJobApplications(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	jobID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid job id")
	}

	applications, err := h.jobs.ListApplications(c.Context(), companyID, jobID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, applications)
}

// SetStatusRequest represents a job application status change
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetApplicationStatus updates a job application's status
func (h *JobHandler) SetApplicationStatus(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	application, err := h.jobs.SetApplicationStatus(c.Context(), companyID, applicationID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.BadRequest(c, "Unknown application status")
		default:
			return response.InternalServerError(c, "Failed to update application")
		}
	}

	return response.Success(c, application)
}
