package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skillora/skillora-api/model"
	"gorm.io/gorm"
)

// ClassroomService covers the teacher side of a course: materials,
// assignments, and grading. Published content is what the progress engine
// counts.
type ClassroomService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewClassroomService creates a new classroom service
func NewClassroomService(db *gorm.DB, notifications *NotificationService) *ClassroomService {
	return &ClassroomService{db: db, notifications: notifications}
}

func (s *ClassroomService) ownedCourse(db *gorm.DB, teacherID, courseID uint) (*model.Course, error) {
	var course model.Course
	err := db.Where("id = ? AND teacher_id = ?", courseID, teacherID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// MaterialInput carries the fields of a course material.
type MaterialInput struct {
	Title       string
	Description string
	FilePath    string
	ContentType string
	Position    int
	IsPublished bool
}

// CreateMaterial adds a material to a course the teacher owns.
func (s *ClassroomService) CreateMaterial(ctx context.Context, teacherID, courseID uint, input MaterialInput) (*model.CourseMaterial, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.ownedCourse(db, teacherID, courseID); err != nil {
		return nil, err
	}

	material := model.CourseMaterial{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		FilePath:    input.FilePath,
		ContentType: input.ContentType,
		Position:    input.Position,
		IsPublished: input.IsPublished,
	}
	if err := db.Create(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// UpdateMaterial edits a material on a course the teacher owns.
func (s *ClassroomService) UpdateMaterial(ctx context.Context, teacherID, materialID uint, input MaterialInput) (*model.CourseMaterial, error) {
	db := s.db.WithContext(ctx)

	var material model.CourseMaterial
	err := db.Joins("JOIN courses ON courses.id = course_materials.course_id").
		Where("course_materials.id = ? AND courses.teacher_id = ?", materialID, teacherID).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"title":        input.Title,
		"description":  input.Description,
		"content_type": input.ContentType,
		"position":     input.Position,
		"is_published": input.IsPublished,
	}
	if input.FilePath != "" {
		updates["file_path"] = input.FilePath
	}
	if err := db.Model(&material).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// ListMaterials returns a course's materials. Students see only published
// ones; the owning teacher sees everything.
func (s *ClassroomService) ListMaterials(ctx context.Context, courseID uint, publishedOnly bool) ([]model.CourseMaterial, error) {
	query := s.db.WithContext(ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var materials []model.CourseMaterial
	err := query.Order("position ASC, created_at ASC").Find(&materials).Error
	return materials, err
}

// AssignmentInput carries the fields of an assignment.
type AssignmentInput struct {
	Title       string
	Description string
	MaxMarks    int
	DueDate     *time.Time
	IsPublished bool
}

// CreateAssignment adds an assignment to a course the teacher owns.
func (s *ClassroomService) CreateAssignment(ctx context.Context, teacherID, courseID uint, input AssignmentInput) (*model.Assignment, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.ownedCourse(db, teacherID, courseID); err != nil {
		return nil, err
	}

	assignment := model.Assignment{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		MaxMarks:    input.MaxMarks,
		DueDate:     input.DueDate,
		IsPublished: input.IsPublished,
	}
	if assignment.MaxMarks <= 0 {
		assignment.MaxMarks = 100
	}
	if err := db.Create(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignments returns a course's assignments, optionally published only.
func (s *ClassroomService) ListAssignments(ctx context.Context, courseID uint, publishedOnly bool) ([]model.Assignment, error) {
	query := s.db.WithContext(ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var assignments []model.Assignment
	err := query.Order("created_at ASC").Find(&assignments).Error
	return assignments, err
}

// SubmitAssignment records a student's submission. One submission per
// (assignment, student); resubmitting before grading replaces the content.
func (s *ClassroomService) SubmitAssignment(ctx context.Context, studentID, assignmentID uint, content, filePath string) (*model.AssignmentSubmission, error) {
	db := s.db.WithContext(ctx)

	if strings.TrimSpace(content) == "" && filePath == "" {
		return nil, fmt.Errorf("%w: submission content is empty", ErrEmptySubmission)
	}

	var assignment model.Assignment
	if err := db.Where("id = ? AND is_published = ?", assignmentID, true).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var submission model.AssignmentSubmission
	err := db.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		submission = model.AssignmentSubmission{
			AssignmentID: assignmentID,
			StudentID:    studentID,
			Content:      content,
			FilePath:     filePath,
			Status:       model.SubmissionStatusSubmitted,
		}
		if err := db.Create(&submission).Error; err != nil {
			return nil, err
		}
		return &submission, nil
	}
	if err != nil {
		return nil, err
	}

	if submission.Status == model.SubmissionStatusGraded {
		return nil, ErrAlreadyGraded
	}

	updates := map[string]interface{}{"content": content}
	if filePath != "" {
		updates["file_path"] = filePath
	}
	if err := db.Model(&submission).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// GradeSubmission marks a submission as graded with marks and feedback, and
// notifies the student.
func (s *ClassroomService) GradeSubmission(ctx context.Context, teacherID, submissionID uint, marks int, feedback string) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Assignment").
			Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
			Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("assignment_submissions.id = ? AND courses.teacher_id = ?", submissionID, teacherID).
			First(&submission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if marks < 0 || marks > submission.Assignment.MaxMarks {
			return fmt.Errorf("%w: marks must be between 0 and %d", ErrInvalidMarks, submission.Assignment.MaxMarks)
		}

		now := time.Now()
		err = tx.Model(&submission).Updates(map[string]interface{}{
			"status":    model.SubmissionStatusGraded,
			"marks":     marks,
			"feedback":  feedback,
			"graded_at": now,
		}).Error
		if err != nil {
			return err
		}
		submission.Status = model.SubmissionStatusGraded
		submission.Marks = &marks
		submission.Feedback = feedback
		submission.GradedAt = &now

		s.notifications.notifyTx(tx, NotificationInput{
			UserID:   submission.StudentID,
			Type:     model.NotificationTypeInfo,
			Category: model.NotificationCategoryGrading,
			Title:    "Assignment graded",
			Message:  fmt.Sprintf("%q was graded: %d/%d", submission.Assignment.Title, marks, submission.Assignment.MaxMarks),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListSubmissions returns all submissions for an assignment on a course the
// teacher owns.
func (s *ClassroomService) ListSubmissions(ctx context.Context, teacherID, assignmentID uint) ([]model.AssignmentSubmission, error) {
	db := s.db.WithContext(ctx)

	var assignment model.Assignment
	err := db.Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("assignments.id = ? AND courses.teacher_id = ?", assignmentID, teacherID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var submissions []model.AssignmentSubmission
	err = db.Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&submissions).Error
	return submissions, err
}
