package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skillora/skillora-api/model"
)

func TestCreateMaterialOwnership(t *testing.T) {
	db := testDB(t)
	svc := NewClassroomService(db, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	other := seedUser(t, db, "other@example.com", model.RoleTeacher)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)

	input := MaterialInput{Title: "Intro", ContentType: "video", IsPublished: true}
	if _, err := svc.CreateMaterial(ctx, other.ID, course.ID, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("create by non-owner: err = %v, want ErrNotFound", err)
	}

	material, err := svc.CreateMaterial(ctx, teacher.ID, course.ID, input)
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}

	if _, err := svc.UpdateMaterial(ctx, other.ID, material.ID, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update by non-owner: err = %v, want ErrNotFound", err)
	}
}

func TestListMaterialsPublishedOnly(t *testing.T) {
	db := testDB(t)
	svc := NewClassroomService(db, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	seedMaterial(t, db, course.ID, true)
	seedMaterial(t, db, course.ID, false)

	all, err := svc.ListMaterials(ctx, course.ID, false)
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("teacher view = %d materials, want 2", len(all))
	}

	published, err := svc.ListMaterials(ctx, course.ID, true)
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("student view = %d materials, want 1", len(published))
	}
}

func TestCreateAssignmentDefaultMarks(t *testing.T) {
	db := testDB(t)
	svc := NewClassroomService(db, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)

	assignment, err := svc.CreateAssignment(ctx, teacher.ID, course.ID, AssignmentInput{Title: "HW1"})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if assignment.MaxMarks != 100 {
		t.Fatalf("max marks = %d, want default 100", assignment.MaxMarks)
	}
}

func TestSubmitAssignment(t *testing.T) {
	db := testDB(t)
	svc := NewClassroomService(db, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	assignment := seedAssignment(t, db, course.ID, true)
	draft := seedAssignment(t, db, course.ID, false)

	if _, err := svc.SubmitAssignment(ctx, student.ID, assignment.ID, "  ", ""); !errors.Is(err, ErrEmptySubmission) {
		t.Fatalf("empty submission: err = %v, want ErrEmptySubmission", err)
	}
	if _, err := svc.SubmitAssignment(ctx, student.ID, draft.ID, "answer", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft assignment: err = %v, want ErrNotFound", err)
	}

	first, err := svc.SubmitAssignment(ctx, student.ID, assignment.ID, "first answer", "")
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}
	if first.Status != model.SubmissionStatusSubmitted {
		t.Fatalf("status = %q, want submitted", first.Status)
	}

	// Resubmission before grading replaces the content in place.
	second, err := svc.SubmitAssignment(ctx, student.ID, assignment.ID, "revised answer", "")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission created a new row: %d then %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&model.AssignmentSubmission{}).
		Where("assignment_id = ? AND student_id = ?", assignment.ID, student.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("submission rows = %d, want 1", count)
	}
}

func TestGradeSubmission(t *testing.T) {
	db := testDB(t)
	svc := NewClassroomService(db, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	other := seedUser(t, db, "other@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	assignment := seedAssignment(t, db, course.ID, true)

	submission, err := svc.SubmitAssignment(ctx, student.ID, assignment.ID, "answer", "")
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}

	if _, err := svc.GradeSubmission(ctx, other.ID, submission.ID, 80, "ok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("grade by non-owner: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GradeSubmission(ctx, teacher.ID, submission.ID, 150, "too generous"); !errors.Is(err, ErrInvalidMarks) {
		t.Fatalf("marks over max: err = %v, want ErrInvalidMarks", err)
	}
	if _, err := svc.GradeSubmission(ctx, teacher.ID, submission.ID, -1, ""); !errors.Is(err, ErrInvalidMarks) {
		t.Fatalf("negative marks: err = %v, want ErrInvalidMarks", err)
	}

	graded, err := svc.GradeSubmission(ctx, teacher.ID, submission.ID, 85, "solid work")
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if graded.Status != model.SubmissionStatusGraded {
		t.Fatalf("status = %q, want graded", graded.Status)
	}
	if graded.Marks == nil || *graded.Marks != 85 {
		t.Fatalf("marks = %v, want 85", graded.Marks)
	}
	if graded.GradedAt == nil {
		t.Fatalf("GradedAt not set")
	}

	// Grading locks the submission.
	if _, err := svc.SubmitAssignment(ctx, student.ID, assignment.ID, "late edit", ""); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("resubmit after grading: err = %v, want ErrAlreadyGraded", err)
	}

	// The student hears about the grade.
	var notifications int64
	db.Model(&model.Notification{}).
		Where("user_id = ? AND category = ?", student.ID, model.NotificationCategoryGrading).
		Count(&notifications)
	if notifications != 1 {
		t.Fatalf("grading notifications = %d, want 1", notifications)
	}
}

func TestListSubmissionsOwnership(t *testing.T) {
	db := testDB(t)
	svc := NewClassroomService(db, NewNotificationService(db))
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	other := seedUser(t, db, "other@example.com", model.RoleTeacher)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	assignment := seedAssignment(t, db, course.ID, true)

	if _, err := svc.ListSubmissions(ctx, other.ID, assignment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("list by non-owner: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ListSubmissions(ctx, teacher.ID, assignment.ID); err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
}
