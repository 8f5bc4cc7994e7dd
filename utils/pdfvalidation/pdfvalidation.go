package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFLimits defines the validation limits for PDF uploads
type PDFLimits struct {
	MaxFileSizeMB    int    // Maximum file size in MB
	MaxPages         int    // Maximum number of pages
	DocumentTypeName string // For error messages (e.g., "resume")
}

// Limits per upload kind
var (
	ResumeLimits = PDFLimits{
		MaxFileSizeMB:    5,
		MaxPages:         10,
		DocumentTypeName: "resume",
	}

	MaterialLimits = PDFLimits{
		MaxFileSizeMB:    100,
		MaxPages:         2000,
		DocumentTypeName: "course material",
	}

	OfferLetterLimits = PDFLimits{
		MaxFileSizeMB:    10,
		MaxPages:         20,
		DocumentTypeName: "offer letter",
	}
)

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

// ValidateUpload checks a multipart PDF upload against the given limits:
// extension, size, a parseable PDF structure, and page count.
func ValidateUpload(fileHeader *multipart.FileHeader, limits PDFLimits) ValidationResult {
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("%s must be a PDF file", limits.DocumentTypeName),
		}
	}

	maxBytes := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return ValidationResult{
			Valid:    false,
			FileSize: fileHeader.Size,
			Error:    fmt.Sprintf("%s exceeds the %dMB size limit", limits.DocumentTypeName, limits.MaxFileSizeMB),
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ValidationResult{Valid: false, Error: "failed to open uploaded file"}
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return ValidationResult{Valid: false, Error: "failed to read uploaded file"}
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ValidationResult{
			Valid:    false,
			FileSize: fileHeader.Size,
			Error:    fmt.Sprintf("%s is not a readable PDF", limits.DocumentTypeName),
		}
	}

	pageCount := reader.NumPage()
	if pageCount > limits.MaxPages {
		return ValidationResult{
			Valid:     false,
			PageCount: pageCount,
			FileSize:  fileHeader.Size,
			Error:     fmt.Sprintf("%s exceeds the %d page limit", limits.DocumentTypeName, limits.MaxPages),
		}
	}

	return ValidationResult{
		Valid:     true,
		PageCount: pageCount,
		FileSize:  fileHeader.Size,
	}
}
