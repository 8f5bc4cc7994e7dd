package classroom

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/services/storage"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/pdfvalidation"
	"github.com/skillora/skillora-api/utils/response"
)

// ClassroomHandler handles course content, submissions and grading
type ClassroomHandler struct {
	classroom   *services.ClassroomService
	enrollments *services.EnrollmentService
	storage     *storage.Client
}

// NewClassroomHandler creates a new classroom handler
func NewClassroomHandler(classroom *services.ClassroomService, enrollments *services.EnrollmentService, storageClient *storage.Client) *ClassroomHandler {
	return &ClassroomHandler{
		classroom:   classroom,
		enrollments: enrollments,
		storage:     storageClient,
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// MaterialRequest represents a create/update material request
type MaterialRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	FilePath    string `json:"file_path"`
	ContentType string `json:"content_type"`
	Position    int    `json:"position"`
	IsPublished bool   `json:"is_published"`
}

func (r *MaterialRequest) toInput() services.MaterialInput {
	return services.MaterialInput{
		Title:       r.Title,
		Description: r.Description,
		FilePath:    r.FilePath,
		ContentType: r.ContentType,
		Position:    r.Position,
		IsPublished: r.IsPublished,
	}
}

// CreateMaterial adds a material to the teacher's course
func (h *ClassroomHandler) CreateMaterial(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req MaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	material, err := h.classroom.CreateMaterial(c.Context(), teacherID, courseID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to create material")
	}

	return response.Created(c, material)
}

// UpdateMaterial edits a material on the teacher's course
func (h *ClassroomHandler) UpdateMaterial(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	materialID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid material id")
	}

	var req MaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	material, err := h.classroom.UpdateMaterial(c.Context(), teacherID, materialID, req.toInput())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Material not found")
		}
		return response.InternalServerError(c, "Failed to update material")
	}

	return response.Success(c, material)
}

// UploadMaterialFile validates and stores a PDF course material, returning
// the stored URL for use in a material's file_path.
func (h *ClassroomHandler) UploadMaterialFile(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if h.storage == nil {
		return response.InternalServerError(c, "File storage is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}

	result := pdfvalidation.ValidateUpload(fileHeader, pdfvalidation.MaterialLimits)
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	key := storage.GenerateKey(fmt.Sprintf("materials/%d", teacherID), fileHeader.Filename)
	url, err := h.storage.UploadFile(c.Context(), key, file, "application/pdf")
	if err != nil {
		return response.InternalServerError(c, "Failed to store file")
	}

	return response.SuccessWithMessage(c, "File uploaded", fiber.Map{"file_path": url})
}

// ListMaterials returns a course's materials. Teachers who own the course
// see drafts; everyone else sees published materials only.
func (h *ClassroomHandler) ListMaterials(c *fiber.Ctx) error {
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	role, _ := middleware.GetUserRole(c)
	publishedOnly := role != model.RoleTeacher

	if role == model.RoleStudent {
		studentID, _ := middleware.GetUserID(c)
		enrolled, err := h.enrollments.IsEnrolled(c.Context(), studentID, courseID)
		if err != nil {
			return response.InternalServerError(c, "Failed to check enrollment")
		}
		if !enrolled {
			return response.Forbidden(c, "Enroll in the course to access its materials")
		}
	}

	materials, err := h.classroom.ListMaterials(c.Context(), courseID, publishedOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list materials")
	}

	return response.Success(c, materials)
}

// AssignmentRequest represents a create assignment request
type AssignmentRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	MaxMarks    int        `json:"max_marks"`
	DueDate     *time.Time `json:"due_date"`
	IsPublished bool       `json:"is_published"`
}

// CreateAssignment adds an assignment to the teacher's course
func (h *ClassroomHandler) CreateAssignment(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	assignment, err := h.classroom.CreateAssignment(c.Context(), teacherID, courseID, services.AssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		MaxMarks:    req.MaxMarks,
		DueDate:     req.DueDate,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to create assignment")
	}

	return response.Created(c, assignment)
}

// ListAssignments returns a course's assignments
func (h *ClassroomHandler) ListAssignments(c *fiber.Ctx) error {
	courseID, err := parseID(c, "course_id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	role, _ := middleware.GetUserRole(c)
	publishedOnly := role != model.RoleTeacher

	if role == model.RoleStudent {
		studentID, _ := middleware.GetUserID(c)
		enrolled, err := h.enrollments.IsEnrolled(c.Context(), studentID, courseID)
		if err != nil {
			return response.InternalServerError(c, "Failed to check enrollment")
		}
		if !enrolled {
			return response.Forbidden(c, "Enroll in the course to access its assignments")
		}
	}

	assignments, err := h.classroom.ListAssignments(c.Context(), courseID, publishedOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list assignments")
	}

	return response.Success(c, assignments)
}

// SubmitRequest represents an assignment submission
type SubmitRequest struct {
	Content  string `json:"content"`
	FilePath string `json:"file_path"`
}

// SubmitAssignment records the student's submission for an assignment
func (h *ClassroomHandler) SubmitAssignment(c *fiber.Ctx) error {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	assignmentID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid assignment id")
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	submission, err := h.classroom.SubmitAssignment(c.Context(), studentID, assignmentID, req.Content, req.FilePath)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Assignment not found")
		case errors.Is(err, services.ErrEmptySubmission):
			return response.ValidationError(c, err)
		case errors.Is(err, services.ErrAlreadyGraded):
			return response.Conflict(c, "Submission was already graded")
		default:
			return response.InternalServerError(c, "Failed to submit assignment")
		}
	}

	return response.Created(c, submission)
}

// GradeRequest represents a grading request
type GradeRequest struct {
	Marks    int    `json:"marks"`
	Feedback string `json:"feedback"`
}

// GradeSubmission marks a submission as graded with marks and feedback
func (h *ClassroomHandler) GradeSubmission(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	submissionID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	var req GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	submission, err := h.classroom.GradeSubmission(c.Context(), teacherID, submissionID, req.Marks, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Submission not found")
		case errors.Is(err, services.ErrInvalidMarks):
			return response.ValidationError(c, err)
		default:
			return response.InternalServerError(c, "Failed to grade submission")
		}
	}

	return response.Success(c, submission)
}

// ListSubmissions returns all submissions for an assignment the teacher owns
func (h *ClassroomHandler) ListSubmissions(c *fiber.Ctx) error {
	teacherID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	assignmentID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid assignment id")
	}

	submissions, err := h.classroom.ListSubmissions(c.Context(), teacherID, assignmentID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Assignment not found")
		}
		return response.InternalServerError(c, "Failed to list submissions")
	}

	return response.Success(c, submissions)
}
