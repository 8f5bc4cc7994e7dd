package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skillora/skillora-api/model"
)

func TestEnsureIdempotent(t *testing.T) {
	db := testDB(t)
	progress := NewProgressService(db)
	svc := NewCertificateService(db, progress)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	material := seedMaterial(t, db, course.ID, true)

	if _, err := progress.MarkMaterialViewed(ctx, student.ID, material.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}

	first, err := svc.Ensure(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(first.CertificateID) != model.CertificateIDLength {
		t.Fatalf("certificate id %q has length %d, want %d", first.CertificateID, len(first.CertificateID), model.CertificateIDLength)
	}

	second, err := svc.Ensure(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if second.CertificateID != first.CertificateID {
		t.Fatalf("certificate id changed on re-issue: %q then %q", first.CertificateID, second.CertificateID)
	}

	var count int64
	db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("certificate rows = %d, want 1", count)
	}
}

func TestEnsureIncomplete(t *testing.T) {
	db := testDB(t)
	progress := NewProgressService(db)
	svc := NewCertificateService(db, progress)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	material := seedMaterial(t, db, course.ID, true)
	seedMaterial(t, db, course.ID, true)

	if _, err := progress.MarkMaterialViewed(ctx, student.ID, material.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}

	if _, err := svc.Ensure(ctx, student.ID, course.ID); !errors.Is(err, ErrCourseNotComplete) {
		t.Fatalf("err = %v, want ErrCourseNotComplete", err)
	}
}

func TestEnsureCertificatesDisabled(t *testing.T) {
	db := testDB(t)
	progress := NewProgressService(db)
	svc := NewCertificateService(db, progress)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	material := seedMaterial(t, db, course.ID, true)
	if err := db.Model(&course).Update("certificate_enabled", false).Error; err != nil {
		t.Fatalf("failed to disable certificates: %v", err)
	}

	if _, err := progress.MarkMaterialViewed(ctx, student.ID, material.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}

	if _, err := svc.Ensure(ctx, student.ID, course.ID); !errors.Is(err, ErrCertificatesDisabled) {
		t.Fatalf("err = %v, want ErrCertificatesDisabled", err)
	}
}

func TestEnsureSurvivesProgressReset(t *testing.T) {
	db := testDB(t)
	progress := NewProgressService(db)
	svc := NewCertificateService(db, progress)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	material := seedMaterial(t, db, course.ID, true)

	if _, err := progress.MarkMaterialViewed(ctx, student.ID, material.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}
	issued, err := svc.Ensure(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	// Unenrolling deletes progress but never revokes the certificate.
	if err := progress.Reset(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	again, err := svc.Ensure(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Ensure after reset: %v", err)
	}
	if again.CertificateID != issued.CertificateID {
		t.Fatalf("certificate changed after progress reset: %q then %q", issued.CertificateID, again.CertificateID)
	}
}

func TestVerifyMarksVerified(t *testing.T) {
	db := testDB(t)
	progress := NewProgressService(db)
	svc := NewCertificateService(db, progress)
	ctx := context.Background()

	teacher := seedUser(t, db, "teacher@example.com", model.RoleTeacher)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	course := seedCourse(t, db, teacher.ID, "Go Basics", 0)
	material := seedMaterial(t, db, course.ID, true)

	if _, err := progress.MarkMaterialViewed(ctx, student.ID, material.ID); err != nil {
		t.Fatalf("MarkMaterialViewed: %v", err)
	}
	issued, err := svc.Ensure(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	verified, err := svc.Verify(ctx, issued.CertificateID)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !verified.Verified {
		t.Fatalf("certificate not marked verified")
	}

	if _, err := svc.Verify(ctx, "NOSUCHCERT123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
