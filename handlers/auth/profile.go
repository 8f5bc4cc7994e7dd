package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
	"gorm.io/gorm/clause"
)

// ProfileResponse bundles the user with their role-specific profile.
type ProfileResponse struct {
	User           UserResponse          `json:"user"`
	StudentProfile *model.StudentProfile `json:"student_profile,omitempty"`
	CompanyProfile *model.CompanyProfile `json:"company_profile,omitempty"`
}

// GetProfile returns the authenticated user with their role profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var user model.User
	err := h.db.Preload("StudentProfile").Preload("CompanyProfile").First(&user, userID).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, ProfileResponse{
		User:           toUserResponse(&user),
		StudentProfile: user.StudentProfile,
		CompanyProfile: user.CompanyProfile,
	})
}

// UpdateProfileRequest updates the basic user fields.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// UpdateProfile updates the user's basic details
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	err := h.db.Model(&model.User{}).Where("id = ?", userID).Update("name", req.Name).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.SuccessWithMessage(c, "Profile updated", nil)
}

// StudentProfileRequest carries the placement-relevant student attributes.
// List fields are comma-separated text.
type StudentProfileRequest struct {
	Bio                  string  `json:"bio"`
	Phone                string  `json:"phone"`
	Skills               string  `json:"skills"`
	PreferredLocations   string  `json:"preferred_locations"`
	PreferredIndustries  string  `json:"preferred_industries"`
	CGPA                 float64 `json:"cgpa"`
	InternshipPreference string  `json:"internship_preference"`
	IsPlacementReady     bool    `json:"is_placement_ready"`
}

// UpdateStudentProfile creates or updates the student profile
func (h *AuthHandler) UpdateStudentProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if !user.IsStudent() {
		return response.Forbidden(c, "Only students have a student profile")
	}

	var req StudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CGPA < 0 || req.CGPA > 10 {
		return response.BadRequest(c, "CGPA must be between 0 and 10")
	}
	switch req.InternshipPreference {
	case "", model.PreferenceInternship, model.PreferenceIndustrialTraining, model.PreferencePlacement:
	default:
		return response.BadRequest(c, "Invalid internship preference")
	}

	profile := model.StudentProfile{
		UserID:               user.ID,
		Bio:                  req.Bio,
		Phone:                req.Phone,
		Skills:               req.Skills,
		PreferredLocations:   req.PreferredLocations,
		PreferredIndustries:  req.PreferredIndustries,
		CGPA:                 req.CGPA,
		InternshipPreference: req.InternshipPreference,
		IsPlacementReady:     req.IsPlacementReady,
	}
	if profile.InternshipPreference == "" {
		profile.InternshipPreference = model.PreferenceInternship
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"bio", "phone", "skills", "preferred_locations", "preferred_industries",
			"cgpa", "internship_preference", "is_placement_ready",
		}),
	}).Create(&profile).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save student profile")
	}

	var saved model.StudentProfile
	if err := h.db.Where("user_id = ?", user.ID).First(&saved).Error; err != nil {
		return response.InternalServerError(c, "Failed to load student profile")
	}
	return response.Success(c, saved)
}

// CompanyProfileRequest carries the company attributes used for matching.
type CompanyProfileRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	About       string `json:"about"`
}

// UpdateCompanyProfile creates or updates the company profile
func (h *AuthHandler) UpdateCompanyProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if !user.IsCompany() {
		return response.Forbidden(c, "Only companies have a company profile")
	}

	var req CompanyProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CompanyName == "" {
		return response.BadRequest(c, "Company name is required")
	}

	profile := model.CompanyProfile{
		UserID:      user.ID,
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Location:    req.Location,
		Website:     req.Website,
		About:       req.About,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company_name", "industry", "location", "website", "about",
		}),
	}).Create(&profile).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save company profile")
	}

	var saved model.CompanyProfile
	if err := h.db.Where("user_id = ?", user.ID).First(&saved).Error; err != nil {
		return response.InternalServerError(c, "Failed to load company profile")
	}
	return response.Success(c, saved)
}
