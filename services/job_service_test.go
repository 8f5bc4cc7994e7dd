package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skillora/skillora-api/model"
)

func TestJobApplyDeduplicatesByEmail(t *testing.T) {
	db := testDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	job, err := svc.Create(ctx, company.ID, JobInput{Title: "Backend Engineer", JobType: "Full-time"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.Apply(ctx, job.ID, JobApplicationInput{
		Name:  "Jane Doe",
		Email: " Jane.Doe@Example.com ",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if first.Email != "jane.doe@example.com" {
		t.Fatalf("stored email = %q, want normalized lowercase", first.Email)
	}
	if first.Status != model.JobApplicationStatusPending {
		t.Fatalf("status = %q, want pending", first.Status)
	}

	// Same address in a different case is the same applicant.
	_, err = svc.Apply(ctx, job.ID, JobApplicationInput{Name: "Jane Doe", Email: "jane.doe@example.com"})
	if !errors.Is(err, ErrDuplicateJobApplication) {
		t.Fatalf("err = %v, want ErrDuplicateJobApplication", err)
	}

	if _, err := svc.Apply(ctx, job.ID, JobApplicationInput{Name: "John Doe", Email: "john@example.com"}); err != nil {
		t.Fatalf("Apply with different email: %v", err)
	}
}

func TestJobApplyMissingJob(t *testing.T) {
	db := testDB(t)
	svc := NewJobService(db)

	_, err := svc.Apply(context.Background(), 9999, JobApplicationInput{Name: "Jane", Email: "jane@example.com"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetJobApplicationStatus(t *testing.T) {
	db := testDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	rival := seedUser(t, db, "rival@example.com", model.RoleCompany)
	job, err := svc.Create(ctx, company.ID, JobInput{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	application, err := svc.Apply(ctx, job.ID, JobApplicationInput{Name: "Jane", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if _, err := svc.SetApplicationStatus(ctx, company.ID, application.ID, "promoted"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unknown status: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.SetApplicationStatus(ctx, rival.ID, application.ID, model.JobApplicationStatusReviewed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other company: err = %v, want ErrNotFound", err)
	}

	updated, err := svc.SetApplicationStatus(ctx, company.ID, application.ID, model.JobApplicationStatusShortlisted)
	if err != nil {
		t.Fatalf("SetApplicationStatus: %v", err)
	}
	if updated.Status != model.JobApplicationStatusShortlisted {
		t.Fatalf("status = %q, want shortlisted", updated.Status)
	}
}

func TestJobOwnership(t *testing.T) {
	db := testDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	rival := seedUser(t, db, "rival@example.com", model.RoleCompany)
	job, err := svc.Create(ctx, company.ID, JobInput{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(ctx, rival.ID, job.ID, JobInput{Title: "Hijacked"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update by rival: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, rival.ID, job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete by rival: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ListApplications(ctx, rival.ID, job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("list applications by rival: err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(ctx, company.ID, job.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, company.ID, job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete again: err = %v, want ErrNotFound", err)
	}
}

func TestJobListFilters(t *testing.T) {
	db := testDB(t)
	svc := NewJobService(db)
	ctx := context.Background()

	company := seedUser(t, db, "company@example.com", model.RoleCompany)
	for _, input := range []JobInput{
		{Title: "Backend Engineer", JobType: "Full-time", Location: "Pune"},
		{Title: "Support Engineer", JobType: "Part-time", Location: "Mumbai"},
		{Title: "SRE", JobType: "Full-time", Location: "Remote"},
	} {
		if _, err := svc.Create(ctx, company.ID, input); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	jobs, err := svc.List(ctx, "Full-time", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("full-time jobs = %d, want 2", len(jobs))
	}

	jobs, err = svc.List(ctx, "", "pune")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Backend Engineer" {
		t.Fatalf("location filter returned %+v", jobs)
	}
}
