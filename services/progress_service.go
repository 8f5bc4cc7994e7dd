package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService recomputes course completion percentages. Progress is
// derived on demand from viewed materials and completed assignments; it is
// never maintained incrementally, so calling Compute repeatedly is safe.
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a new progress service
func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// Compute recalculates and persists the progress percentage for a
// (student, course) pair, creating the progress row at 0% if it does not
// exist yet. A course with no published content stays at 0% permanently:
// with nothing to complete there is nothing to certify.
func (s *ProgressService) Compute(ctx context.Context, studentID, courseID uint) (*model.StudentProgress, error) {
	db := s.db.WithContext(ctx)

	progress, err := s.getOrCreate(db, studentID, courseID)
	if err != nil {
		return nil, err
	}

	var totalMaterials int64
	if err := db.Model(&model.CourseMaterial{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&totalMaterials).Error; err != nil {
		return nil, fmt.Errorf("failed to count materials: %w", err)
	}

	var totalAssignments int64
	if err := db.Model(&model.Assignment{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&totalAssignments).Error; err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}

	percentage := 0.0
	total := totalMaterials + totalAssignments
	if total > 0 {
		var viewed int64
		err := db.Model(&model.MaterialView{}).
			Joins("JOIN course_materials ON course_materials.id = material_views.material_id").
			Where("material_views.student_id = ?", studentID).
			Where("course_materials.course_id = ? AND course_materials.is_published = ?", courseID, true).
			Where("course_materials.deleted_at IS NULL").
			Count(&viewed).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count viewed materials: %w", err)
		}

		var completed int64
		err = db.Model(&model.AssignmentSubmission{}).
			Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
			Where("assignment_submissions.student_id = ?", studentID).
			Where("assignment_submissions.status IN ?", []string{model.SubmissionStatusSubmitted, model.SubmissionStatusGraded}).
			Where("assignments.course_id = ? AND assignments.is_published = ?", courseID, true).
			Where("assignments.deleted_at IS NULL").
			Count(&completed).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count completed assignments: %w", err)
		}

		percentage = 100 * float64(viewed+completed) / float64(total)
		if percentage > 100 {
			percentage = 100
		}
	}

	progress.ProgressPercentage = percentage
	progress.LastAccessed = time.Now()
	if err := db.Model(progress).
		Updates(map[string]interface{}{
			"progress_percentage": progress.ProgressPercentage,
			"last_accessed":       progress.LastAccessed,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to persist progress: %w", err)
	}

	return progress, nil
}

// MarkMaterialViewed records that the student opened a published material and
// recomputes progress. Re-viewing a material is a no-op for the view set.
func (s *ProgressService) MarkMaterialViewed(ctx context.Context, studentID, materialID uint) (*model.StudentProgress, error) {
	db := s.db.WithContext(ctx)

	var material model.CourseMaterial
	if err := db.First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if material.IsPublished {
		view := model.MaterialView{StudentID: studentID, MaterialID: materialID}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&view).Error
		if err != nil {
			return nil, fmt.Errorf("failed to record material view: %w", err)
		}
	}

	return s.Compute(ctx, studentID, material.CourseID)
}

// Get returns the stored progress row without recomputing, lazily creating
// it at 0%.
func (s *ProgressService) Get(ctx context.Context, studentID, courseID uint) (*model.StudentProgress, error) {
	return s.getOrCreate(s.db.WithContext(ctx), studentID, courseID)
}

// Reset deletes the progress row for a (student, course) pair. Used by the
// unenroll flow; issued certificates are untouched.
func (s *ProgressService) Reset(ctx context.Context, studentID, courseID uint) error {
	return s.db.WithContext(ctx).
		Unscoped().
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&model.StudentProgress{}).Error
}

func (s *ProgressService) getOrCreate(db *gorm.DB, studentID, courseID uint) (*model.StudentProgress, error) {
	var progress model.StudentProgress
	err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress = model.StudentProgress{
		StudentID:          studentID,
		CourseID:           courseID,
		ProgressPercentage: 0,
		LastAccessed:       time.Now(),
	}
	// A concurrent request may have created the row between the lookup and
	// the insert; the unique index turns that into a conflict we can ignore.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress).Error; err != nil {
		return nil, fmt.Errorf("failed to initialize progress: %w", err)
	}
	if progress.ID == 0 {
		if err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&progress).Error; err != nil {
			return nil, err
		}
	}
	return &progress, nil
}
