package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillora/skillora-api/model"
)

func TestApply(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, nil)

	application, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		CoverLetter:  "I would like to apply.",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if application.Status != model.ApplicationStatusSubmitted {
		t.Fatalf("status = %q, want submitted", application.Status)
	}
	if application.AppliedAt.IsZero() {
		t.Fatalf("AppliedAt not set")
	}

	// The company gets notified about the new application.
	var notifications int64
	db.Model(&model.Notification{}).Where("user_id = ?", company.ID).Count(&notifications)
	if notifications != 1 {
		t.Fatalf("company notifications = %d, want 1", notifications)
	}
}

func TestApplyDuplicate(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, nil)

	req := ApplyRequest{StudentID: student.ID, InternshipID: internship.ID, CoverLetter: "Hello"}
	if _, err := svc.Apply(ctx, req); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if _, err := svc.Apply(ctx, req); !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}

	var count int64
	db.Model(&model.InternshipApplication{}).Where("student_id = ?", student.ID).Count(&count)
	if count != 1 {
		t.Fatalf("application rows = %d, want 1", count)
	}
}

func TestApplyNoSeats(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	selected := seedUser(t, db, "selected@example.com", model.RoleStudent)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, func(i *model.Internship) {
		i.SeatsAvailable = 1
	})

	taken := model.InternshipApplication{
		StudentID:    selected.ID,
		InternshipID: internship.ID,
		Status:       model.ApplicationStatusSelected,
		AppliedAt:    time.Now(),
	}
	if err := db.Create(&taken).Error; err != nil {
		t.Fatalf("failed to create selected application: %v", err)
	}

	_, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		CoverLetter:  "Hello",
	})
	if !errors.Is(err, ErrNoSeatsAvailable) {
		t.Fatalf("err = %v, want ErrNoSeatsAvailable", err)
	}

	// The duplicate check comes before the seat check: the selected student
	// re-applying is reported as a duplicate even though the posting is full.
	_, err = svc.Apply(ctx, ApplyRequest{
		StudentID:    selected.ID,
		InternshipID: internship.ID,
		CoverLetter:  "Hello again",
	})
	if !errors.Is(err, ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}
}

func TestApplyDeadlinePassed(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	expired := seedInternship(t, db, company.ID, func(i *model.Internship) {
		i.ApplicationDeadline = time.Now().Add(-time.Hour)
	})

	_, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: expired.ID,
		CoverLetter:  "Hello",
	})
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}
}

func TestApplyEmptyCoverLetter(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, nil)

	for _, letter := range []string{"", "   \n\t"} {
		_, err := svc.Apply(ctx, ApplyRequest{
			StudentID:    student.ID,
			InternshipID: internship.ID,
			CoverLetter:  letter,
		})
		if !errors.Is(err, ErrEmptyCoverLetter) {
			t.Fatalf("cover letter %q: err = %v, want ErrEmptyCoverLetter", letter, err)
		}
	}
}

func TestApplyUnpublished(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	draft := seedInternship(t, db, company.ID, func(i *model.Internship) {
		i.Status = model.InternshipStatusDraft
	})

	_, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: draft.ID,
		CoverLetter:  "Hello",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTransitionChainToSelection(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, func(i *model.Internship) {
		i.SeatsAvailable = 3
	})

	application, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		CoverLetter:  "Hello",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	interviewAt := time.Now().Add(72 * time.Hour)
	steps := []TransitionRequest{
		{ApplicationID: application.ID, NewStatus: model.ApplicationStatusUnderReview},
		{ApplicationID: application.ID, NewStatus: model.ApplicationStatusInterviewScheduled, InterviewAt: &interviewAt},
		{ApplicationID: application.ID, NewStatus: model.ApplicationStatusInterviewCompleted},
		{ApplicationID: application.ID, NewStatus: model.ApplicationStatusSelected},
	}
	var updated *model.InternshipApplication
	for _, step := range steps {
		updated, err = svc.Transition(ctx, step)
		if err != nil {
			t.Fatalf("Transition to %s: %v", step.NewStatus, err)
		}
	}

	if updated.Status != model.ApplicationStatusSelected {
		t.Fatalf("status = %q, want selected", updated.Status)
	}
	if updated.DecidedAt == nil {
		t.Fatalf("DecidedAt not set on selection")
	}

	var reloaded model.Internship
	if err := db.First(&reloaded, internship.ID).Error; err != nil {
		t.Fatalf("failed to reload internship: %v", err)
	}
	if reloaded.SeatsFilled != 1 {
		t.Fatalf("seats_filled = %d, want 1", reloaded.SeatsFilled)
	}

	// Every transition notified the student.
	var notifications int64
	db.Model(&model.Notification{}).Where("user_id = ?", student.ID).Count(&notifications)
	if notifications != int64(len(steps)) {
		t.Fatalf("student notifications = %d, want %d", notifications, len(steps))
	}
}

func TestTransitionIllegal(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, nil)

	application, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		CoverLetter:  "Hello",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	_, err = svc.Transition(ctx, TransitionRequest{
		ApplicationID: application.ID,
		NewStatus:     model.ApplicationStatusSelected,
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("submitted -> selected: err = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionRejection(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, nil)

	application, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		CoverLetter:  "Hello",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for _, status := range []string{
		model.ApplicationStatusUnderReview,
		model.ApplicationStatusShortlisted,
		model.ApplicationStatusInterviewCompleted,
	} {
		if _, err := svc.Transition(ctx, TransitionRequest{ApplicationID: application.ID, NewStatus: status}); err != nil {
			t.Fatalf("Transition to %s: %v", status, err)
		}
	}

	rejected, err := svc.Transition(ctx, TransitionRequest{
		ApplicationID:   application.ID,
		NewStatus:       model.ApplicationStatusRejected,
		RejectionReason: "Position filled internally",
	})
	if err != nil {
		t.Fatalf("Transition to rejected: %v", err)
	}
	if rejected.RejectionReason != "Position filled internally" {
		t.Fatalf("rejection reason = %q", rejected.RejectionReason)
	}
	if rejected.DecidedAt == nil {
		t.Fatalf("DecidedAt not set on rejection")
	}
}

func TestWithdraw(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	student := seedUser(t, db, "student@example.com", model.RoleStudent)
	other := seedUser(t, db, "other@example.com", model.RoleStudent)
	internship := seedInternship(t, db, company.ID, nil)

	application, err := svc.Apply(ctx, ApplyRequest{
		StudentID:    student.ID,
		InternshipID: internship.ID,
		CoverLetter:  "Hello",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Only the owning student may withdraw.
	if _, err := svc.Withdraw(ctx, other.ID, application.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("withdraw by other student: err = %v, want ErrNotFound", err)
	}

	withdrawn, err := svc.Withdraw(ctx, student.ID, application.ID)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if withdrawn.Status != model.ApplicationStatusWithdrawn {
		t.Fatalf("status = %q, want withdrawn", withdrawn.Status)
	}

	// Withdrawn is terminal.
	if _, err := svc.Withdraw(ctx, student.ID, application.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second withdraw: err = %v, want ErrInvalidTransition", err)
	}
}

func TestListByInternshipOwnership(t *testing.T) {
	db := testDB(t)
	svc := NewApplicationService(db, NewNotificationService(db))
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	rival := seedUser(t, db, "rival@example.com", model.RoleCompany)
	internship := seedInternship(t, db, company.ID, nil)

	if _, err := svc.ListByInternship(ctx, rival.ID, internship.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ListByInternship(ctx, company.ID, internship.ID); err != nil {
		t.Fatalf("ListByInternship: %v", err)
	}
}
