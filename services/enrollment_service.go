package services

import (
	"context"
	"errors"

	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// EnrollmentService reads and deactivates enrollments. Creation goes through
// payment settlement only.
type EnrollmentService struct {
	db       *gorm.DB
	progress *ProgressService
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(db *gorm.DB, progress *ProgressService) *EnrollmentService {
	return &EnrollmentService{db: db, progress: progress}
}

// ListActive returns the user's active enrollments with course details.
func (s *EnrollmentService) ListActive(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// IsEnrolled reports whether the user has active access to a course.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).
		Count(&count).Error
	return count > 0, err
}

// Unenroll deactivates the enrollment and deletes the learning progress row.
// Payment history and already-issued certificates are retained; progress
// starts over on re-enrollment.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		err := tx.Where("user_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).
			First(&enrollment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEnrolled
			}
			return err
		}

		if err := tx.Model(&enrollment).Update("is_active", false).Error; err != nil {
			return err
		}

		return tx.Unscoped().
			Where("student_id = ? AND course_id = ?", userID, courseID).
			Delete(&model.StudentProgress{}).Error
	})
}
