package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/skillora/skillora-api/model"
)

func TestComputeEmptyCourse(t *testing.T) {
	db := testDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)

	progress, err := svc.Compute(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if progress.ProgressPercentage != 0 {
		t.Fatalf("progress for empty course = %v, want 0", progress.ProgressPercentage)
	}

	var count int64
	db.Model(&model.StudentProgress{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("progress rows = %d, want 1", count)
	}
}

func TestComputeCountsPublishedContentOnly(t *testing.T) {
	db := testDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)

	m1 := seedMaterial(t, db, course.ID, true)
	m2 := seedMaterial(t, db, course.ID, true)
	seedMaterial(t, db, course.ID, false) // draft, must not count
	assignment := seedAssignment(t, db, course.ID, true)
	seedAssignment(t, db, course.ID, false) // draft, must not count

	// Denominator is 3: two published materials and one published assignment.
	if _, err := svc.MarkMaterialViewed(ctx, student.ID, m1.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}
	progress, err := svc.Compute(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(progress.ProgressPercentage-100.0/3) > 0.01 {
		t.Fatalf("progress = %v, want ~33.33", progress.ProgressPercentage)
	}

	submission := model.AssignmentSubmission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Content:      "done",
		Status:       model.SubmissionStatusSubmitted,
	}
	if err := db.Create(&submission).Error; err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}
	progress, err = svc.Compute(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(progress.ProgressPercentage-200.0/3) > 0.01 {
		t.Fatalf("progress = %v, want ~66.67", progress.ProgressPercentage)
	}

	progress, err = svc.MarkMaterialViewed(ctx, student.ID, m2.ID)
	if err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}
	if progress.ProgressPercentage != 100 {
		t.Fatalf("progress = %v, want 100", progress.ProgressPercentage)
	}
}

func TestMarkMaterialViewedIdempotent(t *testing.T) {
	db := testDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	material := seedMaterial(t, db, course.ID, true)

	first, err := svc.MarkMaterialViewed(ctx, student.ID, material.ID)
	if err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}
	second, err := svc.MarkMaterialViewed(ctx, student.ID, material.ID)
	if err != nil {
		t.Fatalf("MarkMaterialViewed again: %v", err)
	}
	if first.ProgressPercentage != second.ProgressPercentage {
		t.Fatalf("progress changed on re-view: %v then %v", first.ProgressPercentage, second.ProgressPercentage)
	}

	var views int64
	db.Model(&model.MaterialView{}).
		Where("student_id = ? AND material_id = ?", student.ID, material.ID).
		Count(&views)
	if views != 1 {
		t.Fatalf("view rows = %d, want 1", views)
	}
}

func TestMarkMaterialViewedUnpublished(t *testing.T) {
	db := testDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	draft := seedMaterial(t, db, course.ID, false)

	if _, err := svc.MarkMaterialViewed(ctx, student.ID, draft.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}

	var views int64
	db.Model(&model.MaterialView{}).Where("student_id = ?", student.ID).Count(&views)
	if views != 0 {
		t.Fatalf("draft material recorded %d views, want 0", views)
	}
}

func TestMarkMaterialViewedMissing(t *testing.T) {
	db := testDB(t)
	svc := NewProgressService(db)

	_, err := svc.MarkMaterialViewed(context.Background(), 1, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReset(t *testing.T) {
	db := testDB(t)
	svc := NewProgressService(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)

	if _, err := svc.Compute(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if err := svc.Reset(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	var count int64
	db.Model(&model.StudentProgress{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count)
	if count != 0 {
		t.Fatalf("progress rows after reset = %d, want 0", count)
	}
}
