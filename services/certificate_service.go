package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/utils/crypto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// certIDMaxRetries bounds the collision retry loop for certificate id
// generation. Collisions are retryable, never fatal.
const certIDMaxRetries = 5

// CertificateService issues completion certificates. Issuance is idempotent:
// it is triggered from several call sites (content view, progress view,
// certificate list) and must create exactly one row per (user, course).
type CertificateService struct {
	db       *gorm.DB
	progress *ProgressService
}

// NewCertificateService creates a new certificate service
func NewCertificateService(db *gorm.DB, progress *ProgressService) *CertificateService {
	return &CertificateService{db: db, progress: progress}
}

// Ensure returns the certificate for (user, course), creating it if progress
// has reached 100% and the course has certificates enabled. Calling it again
// never regenerates the id or creates a duplicate.
func (s *CertificateService) Ensure(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	db := s.db.WithContext(ctx)

	// Already issued: return as-is, even if progress has since been reset.
	var existing model.Certificate
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var course model.Course
	if err := db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !course.CertificateEnabled {
		return nil, ErrCertificatesDisabled
	}

	progress, err := s.progress.Compute(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !progress.IsComplete() {
		return nil, ErrCourseNotComplete
	}

	return s.create(db, userID, courseID)
}

func (s *CertificateService) create(db *gorm.DB, userID, courseID uint) (*model.Certificate, error) {
	for attempt := 0; attempt < certIDMaxRetries; attempt++ {
		certID, err := crypto.GenerateCertificateID(model.CertificateIDLength)
		if err != nil {
			return nil, err
		}

		cert := model.Certificate{
			UserID:        userID,
			CourseID:      courseID,
			CertificateID: certID,
			IssuedAt:      time.Now(),
		}

		// Concurrent issuance for the same pair resolves through the unique
		// (user, course) index: the loser fetches the winner's row.
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&cert).Error
		if err != nil {
			// A certificate_id collision is retryable with a fresh id.
			continue
		}

		if cert.ID != 0 {
			return &cert, nil
		}

		var existing model.Certificate
		if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	return nil, fmt.Errorf("failed to allocate a unique certificate id after %d attempts", certIDMaxRetries)
}

// ListByUser returns all certificates issued to a user, newest first.
func (s *CertificateService) ListByUser(ctx context.Context, userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

// Verify looks a certificate up by its public id and marks it verified.
func (s *CertificateService) Verify(ctx context.Context, certificateID string) (*model.Certificate, error) {
	db := s.db.WithContext(ctx)

	var cert model.Certificate
	err := db.Preload("Course").Preload("User").
		Where("certificate_id = ?", certificateID).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !cert.Verified {
		if err := db.Model(&cert).Update("verified", true).Error; err != nil {
			return nil, err
		}
		cert.Verified = true
	}

	return &cert, nil
}
