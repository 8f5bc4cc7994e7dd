package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/services/storage"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/pdfvalidation"
	"github.com/skillora/skillora-api/utils/response"
)

// UploadResume validates and stores a student's resume PDF, then records its
// URL on the student profile.
func (h *AuthHandler) UploadResume(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	if !user.IsStudent() {
		return response.Forbidden(c, "Only students can upload a resume")
	}
	if h.storage == nil {
		return response.InternalServerError(c, "File storage is not configured")
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return response.BadRequest(c, "Resume file is required")
	}

	result := pdfvalidation.ValidateUpload(fileHeader, pdfvalidation.ResumeLimits)
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	key := storage.GenerateKey(fmt.Sprintf("resumes/%d", user.ID), fileHeader.Filename)
	url, err := h.storage.UploadFile(c.Context(), key, file, "application/pdf")
	if err != nil {
		return response.InternalServerError(c, "Failed to store resume")
	}

	update := h.db.Model(&model.StudentProfile{}).
		Where("user_id = ?", user.ID).
		Update("resume_path", url)
	if update.Error != nil {
		return response.InternalServerError(c, "Failed to save resume path")
	}
	if update.RowsAffected == 0 {
		profile := model.StudentProfile{UserID: user.ID, ResumePath: url}
		if err := h.db.Create(&profile).Error; err != nil {
			return response.InternalServerError(c, "Failed to save resume path")
		}
	}

	return response.SuccessWithMessage(c, "Resume uploaded", fiber.Map{"resume_path": url})
}
