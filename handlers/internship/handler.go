package internship

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

// InternshipHandler handles internship posting requests
type InternshipHandler struct {
	internships *services.InternshipService
	matching    *services.MatchingService
}

// NewInternshipHandler creates a new internship handler
func NewInternshipHandler(internships *services.InternshipService, matching *services.MatchingService) *InternshipHandler {
	return &InternshipHandler{internships: internships, matching: matching}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// InternshipRequest represents a create/update internship request
type InternshipRequest struct {
	Title                 string    `json:"title" validate:"required"`
	Description           string    `json:"description"`
	RequiredSkills        string    `json:"required_skills"`
	Location              string    `json:"location"`
	Type                  string    `json:"type"`
	Stipend               float64   `json:"stipend"`
	DurationMonths        int       `json:"duration_months"`
	HasPlacementPotential bool      `json:"has_placement_potential"`
	SeatsAvailable        int       `json:"seats_available"`
	ApplicationDeadline   time.Time `json:"application_deadline"`
}

func (r *InternshipRequest) validate() string {
	if r.Title == "" {
		return "Title is required"
	}
	switch r.Type {
	case "", model.InternshipTypeInternship, model.InternshipTypeIndustrialTraining, model.InternshipTypePlacement:
	default:
		return "Invalid internship type"
	}
	if r.ApplicationDeadline.IsZero() {
		return "Application deadline is required"
	}
	return ""
}

func (r *InternshipRequest) toInput() services.InternshipInput {
	return services.InternshipInput{
		Title:                 r.Title,
		Description:           r.Description,
		RequiredSkills:        r.RequiredSkills,
		Location:              r.Location,
		Type:                  r.Type,
		Stipend:               r.Stipend,
		DurationMonths:        r.DurationMonths,
		HasPlacementPotential: r.HasPlacementPotential,
		SeatsAvailable:        r.SeatsAvailable,
		ApplicationDeadline:   r.ApplicationDeadline,
	}
}

// CreateInternship creates a draft posting for the authenticated company
func (h *InternshipHandler) CreateInternship(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req InternshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	internship, err := h.internships.Create(c.Context(), companyID, req.toInput())
	if err != nil {
		return response.InternalServerError(c, "Failed to create internship")
	}

	return response.Created(c, internship)
}

// UpdateInternship edits a posting the company owns
func (h *InternshipHandler) UpdateInternship(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	internshipID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid internship id")
	}

	var req InternshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	internship, err := h.internships.Update(c.Context(), companyID, internshipID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Internship not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.Conflict(c, "Closed postings cannot be edited")
		default:
			return response.InternalServerError(c, "Failed to update internship")
		}
	}

	return response.Success(c, internship)
}

// PublishInternship opens a draft posting to applications
func (h *InternshipHandler) PublishInternship(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	internshipID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid internship id")
	}

	internship, err := h.internships.Publish(c.Context(), companyID, internshipID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Internship not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.Conflict(c, "Only draft postings can be published")
		case errors.Is(err, services.ErrDeadlinePassed):
			return response.PreconditionFailed(c, "Application deadline must be in the future")
		default:
			return response.InternalServerError(c, "Failed to publish internship")
		}
	}

	return response.Success(c, internship)
}

// CloseInternship stops a published posting from accepting applications
func (h *InternshipHandler) CloseInternship(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	internshipID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid internship id")
	}

	internship, err := h.internships.Close(c.Context(), companyID, internshipID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Internship not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return response.Conflict(c, "Only published postings can be closed")
		default:
			return response.InternalServerError(c, "Failed to close internship")
		}
	}

	return response.Success(c, internship)
}

// ListMyInternships returns the company's own postings
func (h *InternshipHandler) ListMyInternships(c *fiber.Ctx) error {
	companyID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	internships, err := h.internships.ListByCompany(c.Context(), companyID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list internships")
	}

	return response.Success(c, internships)
}

// BrowseInternships returns open postings for students
func (h *InternshipHandler) BrowseInternships(c *fiber.Ctx) error {
	opts := services.BrowseOptions{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("per_page", 20),
	}

	internships, total, err := h.internships.Browse(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list internships")
	}

	return response.Paginated(c, internships, response.CalculatePagination(opts.Page, opts.PerPage, total))
}

// GetInternship returns one posting. Companies see their own postings in any
// status; everyone else only sees published ones.
func (h *InternshipHandler) GetInternship(c *fiber.Ctx) error {
	internshipID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid internship id")
	}

	var companyID *uint
	if role, _ := middleware.GetUserRole(c); role == model.RoleCompany {
		if id, ok := middleware.GetUserID(c); ok {
			companyID = &id
		}
	}

	internship, err := h.internships.Get(c.Context(), internshipID, companyID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Internship not found")
		}
		return response.InternalServerError(c, "Failed to load internship")
	}

	return response.Success(c, fiber.Map{
		"internship": internship,
		"is_open":    internship.IsOpen(time.Now()),
	})
}

// GetRecommendations returns scored internship recommendations for the
// authenticated student.
func (h *InternshipHandler) GetRecommendations(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	recommendations, err := h.matching.Recommend(c.Context(), studentID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute recommendations")
	}

	return response.Success(c, recommendations)
}

// GetSuggestedSkills returns the catalog skills for a course title, for
// prefilling the student's placement profile after finishing a course.
func (h *InternshipHandler) GetSuggestedSkills(c *fiber.Ctx) error {
	title := c.Query("course")
	if title == "" {
		return response.BadRequest(c, "Course title is required")
	}

	return response.Success(c, fiber.Map{
		"course": title,
		"skills": h.matching.SuggestSkills(title),
	})
}
