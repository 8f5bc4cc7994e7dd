package certificate

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// CertificateHandler handles certificate requests
type CertificateHandler struct {
	certificates *services.CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certificates *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// ClaimCertificate issues the student's certificate for a completed course.
// Calling it again returns the same certificate.
func (h *CertificateHandler) ClaimCertificate(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courseID, err := strconv.ParseUint(c.Params("course_id"), 10, 32)
	if err != nil || courseID == 0 {
		return response.BadRequest(c, "Invalid course id")
	}

	certificate, err := h.certificates.Ensure(c.Context(), userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrCertificatesDisabled):
			return response.PreconditionFailed(c, "Certificates are not enabled for this course")
		case errors.Is(err, services.ErrCourseNotComplete):
			return response.PreconditionFailed(c, "Complete the course to claim a certificate")
		default:
			return response.InternalServerError(c, "Failed to issue certificate")
		}
	}

	return response.Success(c, certificate)
}

// ListMyCertificates returns the student's earned certificates
func (h *CertificateHandler) ListMyCertificates(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	certificates, err := h.certificates.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list certificates")
	}

	return response.Success(c, certificates)
}

// VerifyCertificate is the public verification endpoint keyed by the
// certificate's public id.
func (h *CertificateHandler) VerifyCertificate(c *fiber.Ctx) error {
	certificateID := strings.TrimSpace(c.Params("certificate_id"))
	if certificateID == "" {
		return response.BadRequest(c, "Certificate id is required")
	}

	certificate, err := h.certificates.Verify(c.Context(), certificateID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Certificate not found")
		}
		return response.InternalServerError(c, "Failed to verify certificate")
	}

	return response.Success(c, certificate)
}
